package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coreybb/authbase/auth"
	"github.com/coreybb/authbase/datastore"
	"github.com/coreybb/authbase/models"
	rh "github.com/coreybb/authbase/route-handlers"
	"github.com/coreybb/authbase/session"
	"github.com/coreybb/authbase/webutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	registerResult *auth.RegisterResult
	message        string
	profile        *models.PublicProfile
	googleResult   *auth.GoogleAuthResult
	err            error
}

func (s *stubAuthService) Register(_ context.Context, _, _, _ string) (*auth.RegisterResult, error) {
	return s.registerResult, s.err
}

func (s *stubAuthService) VerifyEmail(_ context.Context, _, _ string) (string, error) {
	return s.message, s.err
}

func (s *stubAuthService) ResendVerification(_ context.Context, _ string) (string, error) {
	return s.message, s.err
}

func (s *stubAuthService) RequestPasswordReset(_ context.Context, _ string) (string, error) {
	return s.message, s.err
}

func (s *stubAuthService) ResetPassword(_ context.Context, _, _, _ string) (string, error) {
	return s.message, s.err
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (*models.PublicProfile, error) {
	return s.profile, s.err
}

func (s *stubAuthService) GoogleAuth(_ context.Context, _ string) (*auth.GoogleAuthResult, error) {
	return s.googleResult, s.err
}

type stubUserFinder struct {
	user *models.User
	err  error
}

func (s *stubUserFinder) GetUserByID(_ context.Context, _ string) (*models.User, error) {
	return s.user, s.err
}

func newTestRouter(service rh.AuthService, users rh.UserFinder) http.Handler {
	sessions := session.NewManager("test-secret-at-least-32-bytes-long!!", time.Hour, false)
	return SetupRoutes(rh.NewAuthHandler(service, users, sessions))
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

// Error responses must survive the full middleware stack; the default
// Content-Type middleware populates headers before handlers run and
// must not suppress the error body.
func TestRouterErrorResponsesSurviveMiddleware(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubUserFinder{err: datastore.ErrUserNotFound})

	t.Run("malformed body is a 400", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/auth/register", `{"email":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, false, resp["success"])
		assert.Equal(t, webutil.ContentTypeJSONUTF8, w.Header().Get(webutil.HeaderContentType))
	})

	t.Run("me without a session is a 401", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/auth/me", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Not logged in")
	})

	t.Run("unknown field is a 400", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/auth/register",
			`{"email":"a@x.com","name":"A","password":"Password1","admin":true}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouterFlowErrorStatus(t *testing.T) {
	router := newTestRouter(&stubAuthService{err: auth.ErrInvalidCredentials}, &stubUserFinder{})

	w := serve(router, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestRouterSuccessPath(t *testing.T) {
	service := &stubAuthService{registerResult: &auth.RegisterResult{
		UserID:         "u1",
		EmailDelivered: true,
		Message:        "Registration successful. Check your email for a verification code.",
	}}
	router := newTestRouter(service, &stubUserFinder{})

	w := serve(router, http.MethodPost, "/api/auth/register",
		`{"email":"a@x.com","name":"A","password":"Password1"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestRouterHealthCheck(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubUserFinder{})

	w := serve(router, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
