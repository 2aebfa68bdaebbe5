// Package services contains server-side business logic. This file implements
// UserService, which handles account creation, password login, caller
// resolution from access tokens, listing and deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/dmitrijs2005/salaries/internal/dbx"
	"github.com/dmitrijs2005/salaries/internal/server/auth"
	"github.com/dmitrijs2005/salaries/internal/server/config"
	"github.com/dmitrijs2005/salaries/internal/server/models"
	"github.com/dmitrijs2005/salaries/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/salaries/internal/timex"
	"github.com/google/uuid"
)

const (
	msgInvalidData     = "Недопустимые данные"
	msgUserNameTaken   = "Пользователь с данным username уже существует"
	msgEmailTaken      = "Пользователь с данным email уже существует"
	msgInvalidToken    = "Невалидный токен"
	msgUserNotFound    = "Пользователь с %s не найден"
	msgWrongPassword   = "Некорректный пароль для пользователя %s"
	msgUUIDNotFound    = "Пользователь с uuid %s не найден"
	msgSalaryNoUser    = "Пользователь с id %s не найден"
	msgPasswordTooLong = "Пароль должен быть больше 6 символов, но меньше 30"
	emailConstraintKey = "email"
)

// TokenTypeBearer is the token_type reported alongside issued tokens.
const TokenTypeBearer = "bearer"

// Token is the result of a successful login.
type Token struct {
	AccessToken string
	TokenType   string
}

// NewUser carries the already validated fields of a registration request.
type NewUser struct {
	UserName  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserService provides account operations:
//   - Create: register a user together with an empty salary record
//   - Login: verify credentials and mint an access token
//   - ResolveToken: turn a bearer token back into its user
//   - List / ResolveByID / Delete: admin-facing lookups
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	jwtAlgorithm                string
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		jwtAlgorithm:                cfg.JWTAlgorithm,
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Create registers a new account. The reserved bootstrap username and email
// are refused, as are names and emails already in use. The user row and its
// empty salary row are written in one transaction.
func (s *UserService) Create(ctx context.Context, in NewUser) (*models.User, error) {
	if in.UserName == common.ReservedUsername || in.Email == common.ReservedEmail {
		return nil, common.NewDetailError(common.ErrorValidation, msgInvalidData)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, common.NewDetailError(common.ErrorValidation, msgPasswordTooLong)
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         models.RoleUser,
		CreatedAt:    now(),
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)

		taken, err := repo.ExistsByUserName(ctx, user.UserName)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.NewDetailError(common.ErrorAlreadyExists, msgUserNameTaken)
		}

		taken, err = repo.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.NewDetailError(common.ErrorAlreadyExists, msgEmailTaken)
		}

		if _, err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return nil, conflictDetail(err)
			}
			return nil, fmt.Errorf("error creating user: %w", err)
		}

		salary, err := s.createEmptySalary(ctx, tx, user.ID)
		if err != nil {
			return nil, err
		}
		user.Salary = salary

		return user, nil
	})
}

// Authenticate checks username and password and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, userName, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewDetailError(common.ErrorNotFound, fmt.Sprintf(msgUserNotFound, userName))
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("error checking password: %w", err)
	}
	if !ok {
		return nil, common.NewDetailError(common.ErrorUnauthorized, fmt.Sprintf(msgWrongPassword, userName))
	}

	return user, nil
}

// Login authenticates the user and issues an access token for them.
func (s *UserService) Login(ctx context.Context, userName, password string) (*Token, error) {
	user, err := s.Authenticate(ctx, userName, password)
	if err != nil {
		return nil, err
	}

	access, err := auth.GenerateToken(user.ID.String(), s.jwtSecret, s.accessTokenValidityDuration, s.jwtAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &Token{AccessToken: access, TokenType: TokenTypeBearer}, nil
}

// ResolveToken returns the user an access token was issued to. A token that
// fails validation, carries a non-UUID subject, or points at a user that no
// longer exists yields common.ErrInvalidToken.
func (s *UserService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	invalid := common.NewDetailError(common.ErrInvalidToken, msgInvalidToken)

	subject, err := auth.GetUserIDFromToken(token, s.jwtSecret, s.jwtAlgorithm)
	if err != nil {
		return nil, invalid
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, invalid
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	return user, nil
}

// ResolveByID returns the user with its salary.
func (s *UserService) ResolveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewDetailError(common.ErrorNotFound, fmt.Sprintf(msgUUIDNotFound, id))
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// List returns every user ordered by creation date.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// Delete removes a user; the salary row goes with it.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repomanager.Users(s.db).Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewDetailError(common.ErrorNotFound, fmt.Sprintf(msgUUIDNotFound, id))
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

func (s *UserService) createEmptySalary(ctx context.Context, tx dbx.DBTX, userID uuid.UUID) (*models.Salary, error) {
	salary, err := s.repomanager.Salaries(tx).Create(ctx, &models.Salary{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now(),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating salary: %w", err)
	}
	return salary, nil
}

// conflictDetail picks the user-facing message for a unique violation that
// slipped past the existence checks.
func conflictDetail(err error) error {
	if strings.Contains(err.Error(), emailConstraintKey) {
		return common.NewDetailError(common.ErrorAlreadyExists, msgEmailTaken)
	}
	return common.NewDetailError(common.ErrorAlreadyExists, msgUserNameTaken)
}

// now is the naive UTC timestamp stored in created_date columns.
func now() time.Time {
	return timex.Naive(time.Now()).Truncate(time.Microsecond)
}
