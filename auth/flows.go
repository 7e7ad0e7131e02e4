package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coreybb/authbase/datastore"
	"github.com/coreybb/authbase/models"
	"github.com/coreybb/authbase/security"
	"github.com/coreybb/authbase/validation"
	"github.com/google/uuid"
)

// Generic responses that must not reveal whether an account exists.
const (
	resetRequestedMessage = "If an account with that email exists, a password reset code has been sent."
	resendMessage         = "If an account with that email exists and is not yet verified, a new verification code has been sent."
	resendVerifiedMessage = "If your account required verification, a new code has been sent."
)

// Register creates an unverified account and sends a verification code.
// The user row commits before the email goes out; if delivery fails the
// row stays and the result directs the user to resend.
func (s *Service) Register(ctx context.Context, email, name, password string) (*RegisterResult, error) {
	email, err := validation.Email(email)
	if err != nil {
		return nil, invalidInput(err)
	}
	name, err = validation.Name(name)
	if err != nil {
		return nil, invalidInput(err)
	}
	password, err = validation.Password(password)
	if err != nil {
		return nil, invalidInput(err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	code, err := security.NewOneTimeCode()
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:                       uuid.NewString(),
		Email:                    email,
		Name:                     name,
		PasswordHash:             nullString(passwordHash),
		Provider:                 models.ProviderEmail,
		IsEmailVerified:          false,
		EmailVerificationCode:    nullString(code),
		EmailVerificationExpires: nullTime(now.Add(verificationCodeTTL)),
		EmailVerificationSentAt:  nullTime(now),
		CreatedAt:                now,
		UpdatedAt:                now,
		LastSeenAt:               now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, datastore.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	if err := s.mailer.SendVerification(ctx, email, code, name); err != nil {
		slog.Error("Verification email failed after user creation",
			"user_id", user.ID, "error", err)
		return &RegisterResult{
			UserID:         user.ID,
			EmailDelivered: false,
			Message:        "Account created, but the verification email could not be sent. Request a new code from the verification page.",
		}, nil
	}

	return &RegisterResult{
		UserID:         user.ID,
		EmailDelivered: true,
		Message:        "Registration successful. Check your email for a verification code.",
	}, nil
}

// VerifyEmail consumes an outstanding verification code. Verifying an
// already-verified account succeeds idempotently with no state change.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (string, error) {
	email, err := validation.Email(email)
	if err != nil {
		return "", invalidInput(err)
	}
	code, err = validation.OneTimeCode(code)
	if err != nil {
		return "", invalidInput(err)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("verify email: %w", err)
	}

	if user.IsEmailVerified {
		return "Email is already verified.", nil
	}
	if !user.EmailVerificationCode.Valid || user.EmailVerificationCode.String != code {
		return "", ErrInvalidCode
	}
	if !user.EmailVerificationExpires.Valid || s.now().After(user.EmailVerificationExpires.Time) {
		return "", ErrCodeExpired
	}

	if err := s.store.MarkEmailVerified(ctx, user.ID, s.now()); err != nil {
		return "", fmt.Errorf("verify email: %w", err)
	}
	return "Email verified successfully.", nil
}

// ResendVerification issues a fresh code, invalidating any prior one.
// The response never reveals whether the account exists, and only a
// non-committal variant distinguishes already-verified accounts.
func (s *Service) ResendVerification(ctx context.Context, email string) (string, error) {
	email, err := validation.Email(email)
	if err != nil {
		return "", invalidInput(err)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return resendMessage, nil
		}
		return "", fmt.Errorf("resend verification: %w", err)
	}
	if user.IsEmailVerified {
		return resendVerifiedMessage, nil
	}

	code, err := security.NewOneTimeCode()
	if err != nil {
		return "", fmt.Errorf("resend verification: %w", err)
	}
	now := s.now()
	if err := s.store.SetEmailVerificationCode(ctx, user.ID, code, now.Add(verificationCodeTTL), now); err != nil {
		return "", fmt.Errorf("resend verification: %w", err)
	}

	// Delivery failure is swallowed into the generic message; surfacing
	// it here would leak account existence.
	if err := s.mailer.SendVerification(ctx, email, code, user.Name); err != nil {
		slog.Error("Resend verification email failed", "user_id", user.ID, "error", err)
	}
	return resendMessage, nil
}

// RequestPasswordReset issues a reset code when the account exists.
// The response is byte-identical whether or not it does.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email, err := validation.Email(email)
	if err != nil {
		return "", invalidInput(err)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return resetRequestedMessage, nil
		}
		return "", fmt.Errorf("request password reset: %w", err)
	}

	code, err := security.NewOneTimeCode()
	if err != nil {
		return "", fmt.Errorf("request password reset: %w", err)
	}
	now := s.now()
	if err := s.store.SetPasswordResetCode(ctx, user.ID, code, now.Add(resetCodeTTL), now); err != nil {
		return "", fmt.Errorf("request password reset: %w", err)
	}

	if err := s.mailer.SendReset(ctx, email, code, user.Name); err != nil {
		slog.Error("Password reset email failed", "user_id", user.ID, "error", err)
	}
	return resetRequestedMessage, nil
}

// ResetPassword consumes an outstanding reset code and replaces the
// stored hash. A missing account and a wrong code are indistinguishable.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) (string, error) {
	email, err := validation.Email(email)
	if err != nil {
		return "", invalidInput(err)
	}
	code, err = validation.OneTimeCode(code)
	if err != nil {
		return "", invalidInput(err)
	}
	newPassword, err = validation.Password(newPassword)
	if err != nil {
		return "", invalidInput(err)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return "", ErrInvalidResetCode
		}
		return "", fmt.Errorf("reset password: %w", err)
	}

	if !user.PasswordResetCode.Valid || user.PasswordResetCode.String != code {
		return "", ErrInvalidResetCode
	}
	if !user.PasswordResetExpires.Valid || s.now().After(user.PasswordResetExpires.Time) {
		return "", ErrCodeExpired
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, user.ID, passwordHash, s.now()); err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	return "Password successfully reset.", nil
}

// Login authenticates an email/password pair. The invalid-credentials
// outcome is uniform across "no such user", "wrong password" and
// "no password set", and always costs one bcrypt comparison.
func (s *Service) Login(ctx context.Context, email, password string) (*models.PublicProfile, error) {
	email, err := validation.Email(email)
	if err != nil {
		return nil, invalidInput(err)
	}
	if password == "" {
		return nil, invalidInput(errors.New("password is required"))
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			security.BurnPasswordCheck(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !user.PasswordHash.Valid {
		// OAuth-only account; keep timing flat.
		security.BurnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}
	if !security.VerifyPassword(password, user.PasswordHash.String) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}

	if err := s.store.TouchLastSeen(ctx, user.ID, s.now()); err != nil {
		slog.Warn("Failed to update last seen timestamp", "user_id", user.ID, "error", err)
	}

	profile := user.Public()
	return &profile, nil
}
