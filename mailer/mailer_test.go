package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(endpoint string) *ResendProvider {
	return &ResendProvider{
		apiKey:    "test-api-key",
		fromEmail: "noreply@example.com",
		endpoint:  endpoint,
		client:    &http.Client{Timeout: time.Second},
	}
}

func TestResendProviderSend(t *testing.T) {
	var gotAuth, gotContentType string
	var gotPayload resendPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(resendResponse{ID: "msg_123"})
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	id, err := provider.Send(context.Background(), "a@x.com", "Subject", "<p>Body</p>")
	require.NoError(t, err)

	assert.Equal(t, "msg_123", id)
	assert.Equal(t, "Bearer test-api-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "noreply@example.com", gotPayload.From)
	assert.Equal(t, []string{"a@x.com"}, gotPayload.To)
	assert.Equal(t, "Subject", gotPayload.Subject)
	assert.Equal(t, "<p>Body</p>", gotPayload.HTML)
}

func TestResendProviderSendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	_, err := provider.Send(context.Background(), "a@x.com", "Subject", "<p>Body</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

type capturingProvider struct {
	to, subject, body string
	err               error
}

func (p *capturingProvider) Send(_ context.Context, to, subject, htmlBody string) (string, error) {
	p.to, p.subject, p.body = to, subject, htmlBody
	if p.err != nil {
		return "", p.err
	}
	return "msg_456", nil
}

func TestSendVerificationBuildsBody(t *testing.T) {
	provider := &capturingProvider{}
	m := NewMailer(provider, "https://app.example.com")

	err := m.SendVerification(context.Background(), "a@x.com", "123456", "Ada")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", provider.to)
	assert.Equal(t, "Verify your email address", provider.subject)
	assert.Contains(t, provider.body, "Welcome Ada!")
	assert.Contains(t, provider.body, "https://app.example.com/verify-email?code=123456&email=a%40x.com")
	assert.Contains(t, provider.body, ">123456<")
}

func TestSendResetBuildsBody(t *testing.T) {
	provider := &capturingProvider{}
	m := NewMailer(provider, "https://app.example.com")

	err := m.SendReset(context.Background(), "a@x.com", "654321", "Ada")
	require.NoError(t, err)

	assert.Equal(t, "Reset your password", provider.subject)
	assert.Contains(t, provider.body, "https://app.example.com/verify-reset?code=654321&email=a%40x.com")
	assert.Contains(t, provider.body, ">654321<")
}

func TestSendVerificationEscapesName(t *testing.T) {
	provider := &capturingProvider{}
	m := NewMailer(provider, "https://app.example.com")

	err := m.SendVerification(context.Background(), "a@x.com", "123456", `<script>alert(1)</script>`)
	require.NoError(t, err)

	assert.NotContains(t, provider.body, "<script>")
	assert.Contains(t, provider.body, "&lt;script&gt;")
}

func TestSendVerificationPropagatesProviderError(t *testing.T) {
	provider := &capturingProvider{err: errors.New("provider down")}
	m := NewMailer(provider, "https://app.example.com")

	err := m.SendVerification(context.Background(), "a@x.com", "123456", "Ada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}
