package routehandlers

import (
	"errors"
	"net/http"

	"github.com/coreybb/authbase/auth"
	"github.com/coreybb/authbase/webutil"
)

// Taxonomy kinds exposed in the response envelope's "error" field.
const (
	kindInvalidInput        = "INVALID_INPUT"
	kindDuplicateEmail      = "DUPLICATE_EMAIL"
	kindInvalidCredentials  = "INVALID_CREDENTIALS"
	kindEmailNotVerified    = "EMAIL_NOT_VERIFIED"
	kindNotFound            = "NOT_FOUND"
	kindInvalidCode         = "INVALID_CODE"
	kindCodeExpired         = "CODE_EXPIRED"
	kindInvalidResetCode    = "INVALID_RESET_CODE"
	kindEmailDeliveryFailed = "EMAIL_DELIVERY_FAILED"
	kindInvalidGoogleToken  = "INVALID_GOOGLE_TOKEN"
	kindInvalidGoogleUser   = "INVALID_GOOGLE_USER"
	kindGoogleAuthError     = "GOOGLE_AUTH_ERROR"
	kindUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
)

type flowErrorMapping struct {
	sentinel error
	status   int
	kind     string
}

var flowErrorMappings = []flowErrorMapping{
	{auth.ErrInvalidInput, http.StatusBadRequest, kindInvalidInput},
	{auth.ErrDuplicateEmail, http.StatusConflict, kindDuplicateEmail},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, kindInvalidCredentials},
	{auth.ErrEmailNotVerified, http.StatusForbidden, kindEmailNotVerified},
	{auth.ErrNotFound, http.StatusNotFound, kindNotFound},
	{auth.ErrInvalidCode, http.StatusBadRequest, kindInvalidCode},
	{auth.ErrCodeExpired, http.StatusBadRequest, kindCodeExpired},
	{auth.ErrInvalidResetCode, http.StatusBadRequest, kindInvalidResetCode},
	{auth.ErrEmailDeliveryFailed, http.StatusBadGateway, kindEmailDeliveryFailed},
	{auth.ErrInvalidGoogleToken, http.StatusUnauthorized, kindInvalidGoogleToken},
	{auth.ErrInvalidGoogleUser, http.StatusUnauthorized, kindInvalidGoogleUser},
	{auth.ErrGoogleAuthError, http.StatusInternalServerError, kindGoogleAuthError},
	{auth.ErrUpstreamUnavailable, http.StatusBadGateway, kindUpstreamUnavailable},
}

// respondFlowError writes the envelope for a recognized flow error and
// returns nil so MakeHandler does not double-respond. Unrecognized
// errors are returned unchanged and surface as a 500.
func respondFlowError(w http.ResponseWriter, err error) error {
	for _, m := range flowErrorMappings {
		if errors.Is(err, m.sentinel) {
			webutil.RespondWithJSON(w, m.status, envelope{
				Success: false,
				Error:   m.kind,
				Message: auth.UserMessage(err),
			})
			return nil
		}
	}
	return err
}
