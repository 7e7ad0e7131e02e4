package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("test-secret-at-least-32-bytes-long!!", time.Hour, false)
}

func TestSignParseRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.Sign("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := newTestManager()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := m.Parse(token)
		assert.Error(t, err)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := newTestManager().Sign("user-123")
	require.NoError(t, err)

	other := NewManager("a-completely-different-signing-secret", time.Hour, false)
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret-at-least-32-bytes-long!!", -time.Minute, false)

	token, err := m.Sign("user-123")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestUserIDFromRequest(t *testing.T) {
	m := newTestManager()

	t.Run("no cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, m.UserIDFromRequest(r))
	})

	t.Run("invalid cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-token"})
		assert.Empty(t, m.UserIDFromRequest(r))
	})

	t.Run("valid cookie", func(t *testing.T) {
		token, err := m.Sign("user-123")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		assert.Equal(t, "user-123", m.UserIDFromRequest(r))
	})
}

func TestCookieAttributes(t *testing.T) {
	m := newTestManager()

	w := httptest.NewRecorder()
	m.SetCookie(w, "token-value")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Zero(t, cookie.MaxAge, "session cookie must not persist past the browser session")
	assert.True(t, cookie.Expires.IsZero())
}

func TestClearCookie(t *testing.T) {
	m := newTestManager()

	w := httptest.NewRecorder()
	m.ClearCookie(w)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}
