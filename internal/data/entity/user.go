package entity

import "github.com/google/uuid"

// User is an operator account of one business.
type User struct {
	Base
	BusinessID   uuid.UUID `db:"business_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password"`
	IsActive     bool      `db:"is_active"`
}
