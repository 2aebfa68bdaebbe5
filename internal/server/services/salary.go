package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/dmitrijs2005/salaries/internal/dbx"
	"github.com/dmitrijs2005/salaries/internal/server/models"
	"github.com/dmitrijs2005/salaries/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/salaries/internal/timex"
	"github.com/google/uuid"
)

// SalaryService reads and patches the salary record attached to each user.
type SalaryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSalaryService(db *sql.DB, m repomanager.RepositoryManager) *SalaryService {
	return &SalaryService{db: db, repomanager: m}
}

// Update applies patch to the salary of userID and returns the user with the
// refreshed salary. Nil patch fields are left as they are; increase_date
// loses its offset but keeps the clock time it was sent with.
func (s *SalaryService) Update(ctx context.Context, userID uuid.UUID, patch models.SalaryPatch) (*models.User, error) {
	if patch.IncreaseDate != nil {
		d := timex.StripZone(*patch.IncreaseDate)
		patch.IncreaseDate = &d
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		user, err := s.repomanager.Users(tx).GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.NewDetailError(common.ErrorNotFound, fmt.Sprintf(msgSalaryNoUser, userID))
			}
			return nil, fmt.Errorf("error loading user: %w", err)
		}

		if patch.Empty() {
			return user, nil
		}

		salary, err := s.repomanager.Salaries(tx).Update(ctx, userID, patch)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.NewDetailError(common.ErrorNotFound, fmt.Sprintf(msgSalaryNoUser, userID))
			}
			return nil, fmt.Errorf("error updating salary: %w", err)
		}
		user.Salary = salary

		return user, nil
	})
}

// GetByUserID returns the salary of userID.
func (s *SalaryService) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Salary, error) {
	salary, err := s.repomanager.Salaries(s.db).GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewDetailError(common.ErrorNotFound, fmt.Sprintf(msgUUIDNotFound, userID))
		}
		return nil, fmt.Errorf("error loading salary: %w", err)
	}
	return salary, nil
}
