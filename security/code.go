package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// One-time codes are six decimal digits, uniform in [100000, 999999].
const (
	codeMin   = 100000
	codeRange = 900000
)

// NewOneTimeCode generates a single-use numeric code for email
// verification or password reset.
func NewOneTimeCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", fmt.Errorf("failed to generate one-time code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
