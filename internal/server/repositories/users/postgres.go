// Package users provides the PostgreSQL-backed credential store.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/dmitrijs2005/salaries/internal/dbx"
	"github.com/dmitrijs2005/salaries/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectUserWithSalary = `
		SELECT u.id, u.username, u.email, u.password, u.first_name, u.last_name, u.role, u.created_date,
		       s.id, s.current_salary, s.increase_date, s.created_date
		FROM users u
		LEFT JOIN salaries s ON s.user_id = u.id
		`

// PostgresRepository works over dbx.DBTX, so it runs equally on *sql.DB and
// inside a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user. A unique violation on username or email is reported
// as common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, username, email, password, first_name, last_name, role, created_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.UserName, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, string(user.Role), user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", common.ErrorAlreadyExists, pgErr.ConstraintName)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, selectUserWithSalary+`WHERE u.id = $1`, id)
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	return r.getOne(ctx, selectUserWithSalary+`WHERE u.username = $1`, userName)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, userName)
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *PostgresRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUserWithSalary+`ORDER BY u.created_date, u.username`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SetRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	return r.affectOne(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, string(role))
}

// Delete removes the user; the salary row goes with it through ON DELETE
// CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.affectOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) affectOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		user          models.User
		role          string
		salaryID      uuid.NullUUID
		amount        sql.NullFloat64
		increaseDate  sql.NullTime
		salaryCreated sql.NullTime
	)

	err := row.Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &role, &user.CreatedAt,
		&salaryID, &amount, &increaseDate, &salaryCreated)
	if err != nil {
		return nil, err
	}
	user.Role = models.Role(role)

	if salaryID.Valid {
		s := &models.Salary{ID: salaryID.UUID, UserID: user.ID, CreatedAt: salaryCreated.Time}
		if amount.Valid {
			s.Amount = &amount.Float64
		}
		if increaseDate.Valid {
			s.IncreaseDate = &increaseDate.Time
		}
		user.Salary = s
	}

	return &user, nil
}
