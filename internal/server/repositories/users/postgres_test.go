package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/dmitrijs2005/salaries/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{
	"id", "username", "email", "password", "first_name", "last_name", "role", "created_date",
	"id", "current_salary", "increase_date", "created_date",
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	u := &models.User{
		ID:           uuid.New(),
		UserName:     "testuser",
		Email:        "testuser@mail.ru",
		PasswordHash: "hash",
		FirstName:    "Иван",
		LastName:     "Иванов",
		Role:         models.RoleUser,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+users\s*\(id,\s*username,\s*email,\s*password,\s*first_name,\s*last_name,\s*role,\s*created_date\)`).
		WithArgs(u.ID, "testuser", "testuser@mail.ru", "hash", "Иван", "Иванов", "user", u.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Same(t, u, got)
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{ID: uuid.New()})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Contains(t, err.Error(), "users_email_key")
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{ID: uuid.New()})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestGetByID_WithSalary(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id, salaryID := uuid.New(), uuid.New()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	increase := time.Date(2035, 6, 6, 8, 54, 16, 209000000, time.UTC)

	mock.ExpectQuery(`(?s)SELECT\s+u\.id.*FROM\s+users\s+u\s+LEFT\s+JOIN\s+salaries\s+s\s+ON\s+s\.user_id\s*=\s*u\.id\s+WHERE\s+u\.id\s*=\s*\$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "testuser", "testuser@mail.ru", "hash", "Иван", "Иванов", "admin", created,
				salaryID.String(), 100000.0, increase, created))

	u, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, u.ID)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.True(t, u.IsAdmin())
	require.NotNil(t, u.Salary)
	assert.Equal(t, salaryID, u.Salary.ID)
	assert.Equal(t, id, u.Salary.UserID)
	require.NotNil(t, u.Salary.Amount)
	assert.Equal(t, 100000.0, *u.Salary.Amount)
	require.NotNil(t, u.Salary.IncreaseDate)
	assert.Equal(t, increase, *u.Salary.IncreaseDate)
}

func TestGetUserByLogin_EmptySalary(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id, salaryID := uuid.New(), uuid.New()
	created := time.Now().UTC()

	mock.ExpectQuery(`(?s)WHERE\s+u\.username\s*=\s*\$1`).
		WithArgs("testuser").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "testuser", "t@mail.ru", "hash", "Иван", "Иванов", "user", created,
				salaryID.String(), nil, nil, created))

	u, err := repo.GetUserByLogin(context.Background(), "testuser")
	require.NoError(t, err)
	require.NotNil(t, u.Salary)
	assert.Nil(t, u.Salary.Amount)
	assert.Nil(t, u.Salary.IncreaseDate)
}

func TestGetUserByLogin_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)WHERE\s+u\.username\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByLogin(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestExists(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\)`).
		WithArgs("testuser").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\)`).
		WithArgs("free@mail.ru").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.ExistsByUserName(ctx, "testuser")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByEmail(ctx, "free@mail.ru")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(userColumns).
		AddRow(uuid.NewString(), "admin", "admin@admin.ru", "h", "admin", "admin", "admin", now, uuid.NewString(), nil, nil, now).
		AddRow(uuid.NewString(), "testuser", "t@mail.ru", "h", "Иван", "Иванов", "user", now, uuid.NewString(), 5.0, nil, now)

	mock.ExpectQuery(`(?s)FROM\s+users\s+u.*ORDER\s+BY\s+u\.created_date`).WillReturnRows(rows)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "admin", list[0].UserName)
	assert.Equal(t, 5.0, *list[1].Salary.Amount)
}

func TestList_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+users`).WillReturnRows(sqlmock.NewRows(userColumns))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	require.ErrorIs(t, repo.Delete(context.Background(), id), common.ErrorNotFound)
}

func TestSetRole(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+role\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(id, "admin").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetRole(context.Background(), id, models.RoleAdmin))
}
