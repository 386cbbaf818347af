package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is an operator bearer token. BusinessID is joined from the
// owning user.
type Session struct {
	BaseSimple
	UserID     uuid.UUID  `db:"user_id"`
	BusinessID uuid.UUID  `db:"-"`
	Token      uuid.UUID  `db:"token"`
	UserAgent  *string    `db:"user_agent"`
	IPAddress  *string    `db:"ip_address"`
	ExpiresAt  time.Time  `db:"expires_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
}
