package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/dmitrijs2005/salaries/internal/dbx"
	"github.com/dmitrijs2005/salaries/internal/server/auth"
	"github.com/dmitrijs2005/salaries/internal/server/models"
	"github.com/google/uuid"
)

// BootstrapResult tells what EnsureAdmin did.
type BootstrapResult int

const (
	AdminUnchanged BootstrapResult = iota
	AdminCreated
	AdminPromoted
)

func (r BootstrapResult) String() string {
	switch r {
	case AdminCreated:
		return "created"
	case AdminPromoted:
		return "promoted"
	default:
		return "unchanged"
	}
}

// DefaultAdmin is the account created by the bootstrap command.
func DefaultAdmin(password string) NewUser {
	return NewUser{
		UserName:  common.ReservedUsername,
		Email:     common.ReservedEmail,
		Password:  password,
		FirstName: "admin",
		LastName:  "admin",
	}
}

// EnsureAdmin makes sure an admin account named in.UserName exists. A missing
// account is created with an empty salary; an existing one is promoted to
// admin if needed and otherwise left alone, password included. Reserved
// literals are accepted here.
func (s *UserService) EnsureAdmin(ctx context.Context, in NewUser) (BootstrapResult, error) {
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (BootstrapResult, error) {
		repo := s.repomanager.Users(tx)

		existing, err := repo.GetUserByLogin(ctx, in.UserName)
		switch {
		case err == nil:
			if existing.IsAdmin() {
				return AdminUnchanged, nil
			}
			if err := repo.SetRole(ctx, existing.ID, models.RoleAdmin); err != nil {
				return AdminUnchanged, fmt.Errorf("error promoting user: %w", err)
			}
			return AdminPromoted, nil
		case !errors.Is(err, common.ErrorNotFound):
			return AdminUnchanged, fmt.Errorf("error loading user: %w", err)
		}

		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return AdminUnchanged, fmt.Errorf("error hashing password: %w", err)
		}

		admin := &models.User{
			ID:           uuid.New(),
			UserName:     in.UserName,
			Email:        in.Email,
			PasswordHash: hash,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Role:         models.RoleAdmin,
			CreatedAt:    now(),
		}
		if _, err := repo.Create(ctx, admin); err != nil {
			return AdminUnchanged, fmt.Errorf("error creating admin: %w", err)
		}
		if _, err := s.createEmptySalary(ctx, tx, admin.ID); err != nil {
			return AdminUnchanged, err
		}

		return AdminCreated, nil
	})
}
