package models

import (
	"time"

	"github.com/google/uuid"
)

// Salary is the one-to-one salary record of a user. Amount and IncreaseDate
// stay nil until an admin sets them.
type Salary struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Amount       *float64
	IncreaseDate *time.Time
	CreatedAt    time.Time
}

// SalaryPatch is a partial update; nil fields are left untouched.
type SalaryPatch struct {
	Amount       *float64
	IncreaseDate *time.Time
}

func (p SalaryPatch) Empty() bool {
	return p.Amount == nil && p.IncreaseDate == nil
}
