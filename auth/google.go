package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coreybb/authbase/datastore"
	"github.com/coreybb/authbase/models"
	"github.com/google/uuid"
)

// GoogleAuth exchanges a Google credential for a local account, creating
// one on first sign-in. Accounts created this way are verified from the
// start, since Google has already verified the address.
func (s *Service) GoogleAuth(ctx context.Context, credential string) (*GoogleAuthResult, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, invalidInput(errors.New("Google credential is required"))
	}

	profile, err := s.google.Verify(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGoogleToken, err.Error())
	}
	if profile.Email == "" || profile.Subject == "" {
		return nil, ErrInvalidGoogleUser
	}
	email := strings.ToLower(strings.TrimSpace(profile.Email))

	// Returning users are matched on the stable Google subject first;
	// the email lookup below handles first-time linking to an existing
	// password account.
	if user, err := s.store.GetUserByGoogleID(ctx, profile.Subject); err == nil {
		if err := s.store.TouchLastSeen(ctx, user.ID, s.now()); err != nil {
			slog.Warn("Failed to update last seen timestamp", "user_id", user.ID, "error", err)
		}
		return &GoogleAuthResult{Profile: user.Public(), IsNewUser: false}, nil
	} else if !errors.Is(err, datastore.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrGoogleAuthError, err.Error())
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return s.linkGoogleIdentity(ctx, user, profile.Subject, profile.Name, profile.Picture)
	case errors.Is(err, datastore.ErrUserNotFound):
		return s.createGoogleUser(ctx, email, profile.Subject, profile.Name, profile.Picture)
	default:
		return nil, fmt.Errorf("%w: %s", ErrGoogleAuthError, err.Error())
	}
}

func (s *Service) linkGoogleIdentity(ctx context.Context, user *models.User, googleID, name, image string) (*GoogleAuthResult, error) {
	if err := s.store.LinkGoogleAccount(ctx, user.ID, googleID, name, image, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGoogleAuthError, err.Error())
	}

	// Reflect the patched fields without a second round trip.
	public := user.Public()
	public.IsEmailVerified = true
	if name != "" {
		public.Name = name
	}
	if image != "" {
		public.Image = image
	}
	return &GoogleAuthResult{Profile: public, IsNewUser: false}, nil
}

func (s *Service) createGoogleUser(ctx context.Context, email, googleID, name, image string) (*GoogleAuthResult, error) {
	if name == "" {
		// Default the display name to the email's local part.
		name = email[:strings.Index(email, "@")]
	}

	now := s.now()
	user := &models.User{
		ID:              uuid.NewString(),
		Email:           email,
		Name:            name,
		Image:           nullString(image),
		Provider:        models.ProviderGoogle,
		GoogleID:        nullString(googleID),
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
		LastSeenAt:      now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGoogleAuthError, err.Error())
	}
	return &GoogleAuthResult{Profile: user.Public(), IsNewUser: true}, nil
}
