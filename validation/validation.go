package validation

import (
	"errors"
	"regexp"
	"strings"
)

// Input length limits. Server-side validation is the security boundary;
// any client-side checks are UX only.
const (
	MaxEmailLength    = 254
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxNameLength     = 100
	MaxCodeLength     = 10
	OneTimeCodeLength = 6
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitsRegex = regexp.MustCompile(`^[0-9]+$`)
	hasLetter   = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit    = regexp.MustCompile(`[0-9]`)
)

// Email trims and lowercases the address and checks basic
// local@domain.tld shape. Returns the normalized address.
func Email(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errors.New("email is required")
	}
	if strings.ContainsRune(email, '\x00') {
		return "", errors.New("email contains invalid characters")
	}
	if len(email) > MaxEmailLength {
		return "", errors.New("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return "", errors.New("email address is not valid")
	}
	return email, nil
}

// Password enforces length bounds and requires at least one letter
// and one digit. The password itself is returned unmodified; passwords
// are never trimmed since leading or trailing spaces are legal.
func Password(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("password is required")
	}
	if strings.ContainsRune(raw, '\x00') {
		return "", errors.New("password contains invalid characters")
	}
	if len(raw) < MinPasswordLength {
		return "", errors.New("password must be at least 8 characters long")
	}
	if len(raw) > MaxPasswordLength {
		return "", errors.New("password must not exceed 128 characters")
	}
	if !hasLetter.MatchString(raw) {
		return "", errors.New("password must include at least one letter")
	}
	if !hasDigit.MatchString(raw) {
		return "", errors.New("password must include at least one digit")
	}
	return raw, nil
}

func Name(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errors.New("name is required")
	}
	if strings.ContainsRune(name, '\x00') {
		return "", errors.New("name contains invalid characters")
	}
	if len(name) > MaxNameLength {
		return "", errors.New("name must not exceed 100 characters")
	}
	return name, nil
}

// OneTimeCode validates a verification or reset code: exactly six digits.
func OneTimeCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return "", errors.New("code is required")
	}
	if len(code) > MaxCodeLength {
		return "", errors.New("code is too long")
	}
	if len(code) != OneTimeCodeLength || !digitsRegex.MatchString(code) {
		return "", errors.New("code must be exactly 6 digits")
	}
	return code, nil
}
