package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	resendEmailsEndpoint = "https://api.resend.com/emails"
	resendRequestTimeout = 10 * time.Second
)

// ResendProvider sends transactional email through the Resend HTTP API.
type ResendProvider struct {
	apiKey    string
	fromEmail string
	endpoint  string
	client    *http.Client
}

func NewResendProvider(apiKey, fromEmail string) *ResendProvider {
	return &ResendProvider{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		endpoint:  resendEmailsEndpoint,
		client:    &http.Client{Timeout: resendRequestTimeout},
	}
}

// Send posts one email and returns the provider's message ID.
func (p *ResendProvider) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	payload := resendPayload{
		From:    p.fromEmail,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create Resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Resend returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode Resend response: %w", err)
	}
	return result.ID, nil
}

// Resend Emails API payload types.
type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}
