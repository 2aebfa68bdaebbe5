// Package salaries provides the PostgreSQL-backed store of salary records.
package salaries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/dmitrijs2005/salaries/internal/dbx"
	"github.com/dmitrijs2005/salaries/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, salary *models.Salary) (*models.Salary, error) {
	query :=
		`INSERT INTO salaries (id, user_id, current_salary, increase_date, created_date)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		salary.ID, salary.UserID, salary.Amount, salary.IncreaseDate, salary.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return salary, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Salary, error) {
	query :=
		`SELECT id, user_id, current_salary, increase_date, created_date FROM salaries
		 WHERE user_id = $1
		 `

	return r.getOne(ctx, query, userID)
}

// Update applies patch to the salary of userID. Nil patch fields keep their
// stored value.
func (r *PostgresRepository) Update(ctx context.Context, userID uuid.UUID, patch models.SalaryPatch) (*models.Salary, error) {
	query :=
		`UPDATE salaries
		 SET current_salary = COALESCE($2, current_salary),
		     increase_date = COALESCE($3, increase_date)
		 WHERE user_id = $1
		 RETURNING id, user_id, current_salary, increase_date, created_date
		 `

	return r.getOne(ctx, query, userID, patch.Amount, patch.IncreaseDate)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Salary, error) {
	var (
		s            models.Salary
		amount       sql.NullFloat64
		increaseDate sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.UserID, &amount, &increaseDate, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if amount.Valid {
		s.Amount = &amount.Float64
	}
	if increaseDate.Valid {
		s.IncreaseDate = &increaseDate.Time
	}
	return &s, nil
}
