package salaries

import (
	"context"

	"github.com/dmitrijs2005/salaries/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, salary *models.Salary) (*models.Salary, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Salary, error)
	Update(ctx context.Context, userID uuid.UUID, patch models.SalaryPatch) (*models.Salary, error)
}
