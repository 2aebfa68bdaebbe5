package users

import (
	"context"

	"github.com/dmitrijs2005/salaries/internal/server/models"
	"github.com/google/uuid"
)

// Repository is the credential store. Lookups return users with their
// salary attached; missing rows yield common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	ExistsByUserName(ctx context.Context, userName string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role models.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}
