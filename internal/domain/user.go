package domain

import "time"

// User represents an account of the system. PasswordHash is only populated
// on values read from the store and never leaves the service layer.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenTypeBearer is the only token type issued by the API.
const TokenTypeBearer = "bearer"

// AccessToken is the result of a successful login.
type AccessToken struct {
	Value     string
	Type      string
	ExpiresAt time.Time
}
