package googleauth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Profile is the identity extracted from a verified Google credential.
type Profile struct {
	Email   string
	Subject string // Google's stable unique user ID
	Name    string
	Picture string
}

// TokenVerifier validates Google ID tokens against the configured
// OAuth client ID.
type TokenVerifier struct {
	clientID string
}

func NewTokenVerifier(clientID string) *TokenVerifier {
	return &TokenVerifier{clientID: clientID}
}

func (v *TokenVerifier) Verify(ctx context.Context, credential string) (*Profile, error) {
	payload, err := idtoken.Validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("google token validation failed: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &Profile{
		Email:   email,
		Subject: payload.Subject,
		Name:    name,
		Picture: picture,
	}, nil
}
