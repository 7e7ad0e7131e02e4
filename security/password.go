package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Work factor equivalent to bcrypt cost 10. Raising this slows every
// login and register call; change it only with a migration plan for
// existing digests.
const bcryptCost = 10

// dummyDigest is a throwaway bcrypt digest used to equalize timing on
// login paths where no stored hash exists (unknown email, OAuth-only
// account). The comparison result is always discarded.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword hashes a plaintext password with a random salt.
// Two calls with the same input produce different digests.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches the stored digest.
// bcrypt's comparison does not leak how many leading characters match.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// BurnPasswordCheck performs a comparison against a fixed digest so that
// code paths with no stored hash cost the same as a real verification.
func BurnPasswordCheck(plaintext string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyDigest), []byte(plaintext))
}
