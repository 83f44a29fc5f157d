package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// PasswordHash holds the bcrypt hash text re-encoded to bytes; the raw
// password is never stored. Email, Username and Phone are each unique
// across all users. Phone is kept in its normalized digits-only form.
type User struct {
	ID           int64
	Username     string
	LastName     string // optional; empty means absent
	Email        string
	Phone        string
	PasswordHash []byte
	CreatedAt    time.Time
}
