package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the access level of an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an account. PasswordHash holds a bcrypt hash, never the password.
type User struct {
	ID           uuid.UUID
	UserName     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time

	// Salary is loaded together with the user by the services layer.
	Salary *Salary
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
