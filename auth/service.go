package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/coreybb/authbase/googleauth"
	"github.com/coreybb/authbase/models"
)

// Outstanding one-time codes expire after these windows.
const (
	verificationCodeTTL = 24 * time.Hour
	resetCodeTTL        = 1 * time.Hour
)

// UserStore is the persistence surface the auth flows need. Partial
// updates must never clobber fields they do not name.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	SetEmailVerificationCode(ctx context.Context, userID, code string, expires, sentAt time.Time) error
	MarkEmailVerified(ctx context.Context, userID string, now time.Time) error
	SetPasswordResetCode(ctx context.Context, userID, code string, expires, now time.Time) error
	UpdatePassword(ctx context.Context, userID, passwordHash string, now time.Time) error
	TouchLastSeen(ctx context.Context, userID string, now time.Time) error
	LinkGoogleAccount(ctx context.Context, userID, googleID, name, image string, now time.Time) error
}

// Mailer sends the two transactional messages the flows produce.
type Mailer interface {
	SendVerification(ctx context.Context, email, code, name string) error
	SendReset(ctx context.Context, email, code, name string) error
}

// GoogleVerifier exchanges an external credential for a verified profile.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*googleauth.Profile, error)
}

// Service orchestrates validators, hasher, store and mailer for the
// authentication flows. One instance serves all requests.
type Service struct {
	store  UserStore
	mailer Mailer
	google GoogleVerifier
	now    func() time.Time
}

func NewService(store UserStore, mailer Mailer, google GoogleVerifier) *Service {
	return &Service{
		store:  store,
		mailer: mailer,
		google: google,
		now:    time.Now,
	}
}

type RegisterResult struct {
	UserID string `json:"userId"`
	// EmailDelivered is false when the user row committed but the
	// verification email could not be sent; resend is the recovery path.
	EmailDelivered bool   `json:"emailDelivered"`
	Message        string `json:"message"`
}

type GoogleAuthResult struct {
	Profile   models.PublicProfile `json:"user"`
	IsNewUser bool                 `json:"isNewUser"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}
