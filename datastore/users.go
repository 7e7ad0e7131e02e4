package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coreybb/authbase/models"
	"github.com/lib/pq"
)

// Sentinel errors returned by the user repository. The unique index on
// email is the authoritative duplicate guard; any pre-insert existence
// check is only an optimization for a better error message.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

const pqUniqueViolation = "23505"

const userColumns = `
	id, email, name, password_hash, image, provider, google_id,
	is_email_verified, email_verification_code, email_verification_expires,
	email_verification_sent_at, password_reset_code, password_reset_expires,
	created_at, updated_at, last_seen_at`

type UserRepository struct {
	db *sql.DB // The actual database connection pool
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Image,
		user.Provider, user.GoogleID, user.IsEmailVerified,
		user.EmailVerificationCode, user.EmailVerificationExpires,
		user.EmailVerificationSentAt, user.PasswordResetCode,
		user.PasswordResetExpires, user.CreatedAt, user.UpdatedAt, user.LastSeenAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("insert user %s: %w", user.Email, ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by the unique, exact-match email index.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, userID))
}

// GetUserByGoogleID retrieves a user by the unique external identity key.
func (r *UserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, googleID))
}

// SetEmailVerificationCode stores a fresh verification code, overwriting
// any prior one. The old code is invalidated immediately.
func (r *UserRepository) SetEmailVerificationCode(ctx context.Context, userID, code string, expires, sentAt time.Time) error {
	query := `
		UPDATE users
		SET email_verification_code = $2,
		    email_verification_expires = $3,
		    email_verification_sent_at = $4,
		    updated_at = $4
		WHERE id = $1
	`
	return r.execForUser(ctx, query, userID, code, expires, sentAt)
}

// MarkEmailVerified flips the verified flag and clears the outstanding
// code so it can never be consumed twice.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, userID string, now time.Time) error {
	query := `
		UPDATE users
		SET is_email_verified = TRUE,
		    email_verification_code = NULL,
		    email_verification_expires = NULL,
		    email_verification_sent_at = NULL,
		    updated_at = $2,
		    last_seen_at = $2
		WHERE id = $1
	`
	return r.execForUser(ctx, query, userID, now)
}

func (r *UserRepository) SetPasswordResetCode(ctx context.Context, userID, code string, expires, now time.Time) error {
	query := `
		UPDATE users
		SET password_reset_code = $2,
		    password_reset_expires = $3,
		    updated_at = $4
		WHERE id = $1
	`
	return r.execForUser(ctx, query, userID, code, expires, now)
}

// UpdatePassword replaces the stored hash and clears the reset code in
// the same statement, making the code single-use.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string, now time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $2,
		    password_reset_code = NULL,
		    password_reset_expires = NULL,
		    updated_at = $3
		WHERE id = $1
	`
	return r.execForUser(ctx, query, userID, passwordHash, now)
}

func (r *UserRepository) TouchLastSeen(ctx context.Context, userID string, now time.Time) error {
	query := `UPDATE users SET last_seen_at = $2 WHERE id = $1`
	return r.execForUser(ctx, query, userID, now)
}

// LinkGoogleAccount attaches a Google identity to an existing user and
// forces the verified flag, since the identity provider has already
// verified the address. Empty name or image keeps the current value.
func (r *UserRepository) LinkGoogleAccount(ctx context.Context, userID, googleID, name, image string, now time.Time) error {
	query := `
		UPDATE users
		SET google_id = $2,
		    provider = $3,
		    name = COALESCE(NULLIF($4, ''), name),
		    image = COALESCE(NULLIF($5, ''), image),
		    is_email_verified = TRUE,
		    email_verification_code = NULL,
		    email_verification_expires = NULL,
		    email_verification_sent_at = NULL,
		    updated_at = $6,
		    last_seen_at = $6
		WHERE id = $1
	`
	return r.execForUser(ctx, query, userID, googleID, models.ProviderGoogle, name, image, now)
}

func (r *UserRepository) execForUser(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Image,
		&user.Provider, &user.GoogleID, &user.IsEmailVerified,
		&user.EmailVerificationCode, &user.EmailVerificationExpires,
		&user.EmailVerificationSentAt, &user.PasswordResetCode,
		&user.PasswordResetExpires, &user.CreatedAt, &user.UpdatedAt, &user.LastSeenAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return &user, nil
}
