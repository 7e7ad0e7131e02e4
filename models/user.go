package models

import (
	"database/sql"
	"time"
)

// Authentication providers for a user account.
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	PasswordHash sql.NullString `json:"-"` // Never exposed in API responses
	Image        sql.NullString `json:"-"`
	Provider     string         `json:"provider"`
	GoogleID     sql.NullString `json:"-"`

	IsEmailVerified          bool           `json:"is_email_verified"`
	EmailVerificationCode    sql.NullString `json:"-"`
	EmailVerificationExpires sql.NullTime   `json:"-"`
	EmailVerificationSentAt  sql.NullTime   `json:"-"`
	PasswordResetCode        sql.NullString `json:"-"`
	PasswordResetExpires     sql.NullTime   `json:"-"`

	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// PublicProfile is the subset of a user record that is safe to return
// to a client. It excludes the password hash and any outstanding codes.
type PublicProfile struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Image           string `json:"image,omitempty"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Image:           u.Image.String,
		IsEmailVerified: u.IsEmailVerified,
	}
}
