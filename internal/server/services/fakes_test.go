package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/dmitrijs2005/salaries/internal/dbx"
	"github.com/dmitrijs2005/salaries/internal/server/config"
	"github.com/dmitrijs2005/salaries/internal/server/models"
	salariesrepo "github.com/dmitrijs2005/salaries/internal/server/repositories/salaries"
	usersrepo "github.com/dmitrijs2005/salaries/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		JWTAlgorithm:                "HS256",
		AccessTokenValidityDuration: time.Hour,
	}
}

// store is an in-memory stand-in for both tables. Salaries are attached to
// users on read, the way the SQL join does it.
type store struct {
	users    map[uuid.UUID]*models.User
	salaries map[uuid.UUID]*models.Salary // by user id

	existsErr    error
	createErr    error
	salaryErr    error
	getErr       error
	listErr      error
	deleteErr    error
	setRoleCalls int
}

func newStore() *store {
	return &store{
		users:    map[uuid.UUID]*models.User{},
		salaries: map[uuid.UUID]*models.Salary{},
	}
}

func (s *store) add(u *models.User) *models.User {
	s.users[u.ID] = u
	s.salaries[u.ID] = &models.Salary{ID: uuid.New(), UserID: u.ID}
	return u
}

func (s *store) withSalary(u *models.User) *models.User {
	cp := *u
	if sal, ok := s.salaries[u.ID]; ok {
		sc := *sal
		cp.Salary = &sc
	}
	return &cp
}

type fakeUsersRepo struct{ s *store }

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.s.createErr != nil {
		return nil, f.s.createErr
	}
	cp := *u
	f.s.users[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.s.getErr != nil {
		return nil, f.s.getErr
	}
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return f.s.withSalary(u), nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	if f.s.getErr != nil {
		return nil, f.s.getErr
	}
	for _, u := range f.s.users {
		if u.UserName == userName {
			return f.s.withSalary(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	if f.s.existsErr != nil {
		return false, f.s.existsErr
	}
	for _, u := range f.s.users {
		if u.UserName == userName {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.s.existsErr != nil {
		return false, f.s.existsErr
	}
	for _, u := range f.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	if f.s.listErr != nil {
		return nil, f.s.listErr
	}
	out := []*models.User{}
	for _, u := range f.s.users {
		out = append(out, f.s.withSalary(u))
	}
	return out, nil
}

func (f *fakeUsersRepo) SetRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	f.s.setRoleCalls++
	u, ok := f.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.s.deleteErr != nil {
		return f.s.deleteErr
	}
	if _, ok := f.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.s.users, id)
	delete(f.s.salaries, id)
	return nil
}

type fakeSalariesRepo struct{ s *store }

func (f *fakeSalariesRepo) Create(ctx context.Context, sal *models.Salary) (*models.Salary, error) {
	if f.s.salaryErr != nil {
		return nil, f.s.salaryErr
	}
	cp := *sal
	f.s.salaries[sal.UserID] = &cp
	return sal, nil
}

func (f *fakeSalariesRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Salary, error) {
	if f.s.salaryErr != nil {
		return nil, f.s.salaryErr
	}
	sal, ok := f.s.salaries[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *sal
	return &cp, nil
}

func (f *fakeSalariesRepo) Update(ctx context.Context, userID uuid.UUID, patch models.SalaryPatch) (*models.Salary, error) {
	if f.s.salaryErr != nil {
		return nil, f.s.salaryErr
	}
	sal, ok := f.s.salaries[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.Amount != nil {
		sal.Amount = patch.Amount
	}
	if patch.IncreaseDate != nil {
		sal.IncreaseDate = patch.IncreaseDate
	}
	cp := *sal
	return &cp, nil
}

type fakeRepoManager struct{ s *store }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return &fakeUsersRepo{m.s} }
func (m *fakeRepoManager) Salaries(db dbx.DBTX) salariesrepo.Repository { return &fakeSalariesRepo{m.s} }
