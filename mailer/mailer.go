package mailer

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/url"
)

// Provider is the adapter interface for transactional email delivery.
// Implement this to swap delivery mechanisms (Resend, SendGrid, SMTP).
type Provider interface {
	// Send delivers one email and returns the provider's message ID.
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// Mailer builds verification and password-reset messages and hands them
// to a Provider. Each call produces exactly one outbound email; delivery
// failure is surfaced to the caller, who decides whether the user-visible
// operation fails with it.
type Mailer struct {
	provider Provider
	appURL   string // public base URL used for deep links
}

func NewMailer(provider Provider, appURL string) *Mailer {
	return &Mailer{provider: provider, appURL: appURL}
}

func (m *Mailer) SendVerification(ctx context.Context, email, code, name string) error {
	link := fmt.Sprintf("%s/verify-email?code=%s&email=%s",
		m.appURL, url.QueryEscape(code), url.QueryEscape(email))
	body := fmt.Sprintf(verificationBodyHTML, html.EscapeString(name), link, code)

	id, err := m.provider.Send(ctx, email, "Verify your email address", body)
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	slog.Info("Verification email sent", "message_id", id)
	return nil
}

func (m *Mailer) SendReset(ctx context.Context, email, code, name string) error {
	link := fmt.Sprintf("%s/verify-reset?code=%s&email=%s",
		m.appURL, url.QueryEscape(code), url.QueryEscape(email))
	body := fmt.Sprintf(resetBodyHTML, html.EscapeString(name), link, code)

	id, err := m.provider.Send(ctx, email, "Reset your password", body)
	if err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	slog.Info("Password reset email sent", "message_id", id)
	return nil
}

// Each body carries both a deep link and the bare code, so the user can
// click through or type the code into the form.
const verificationBodyHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome %s!</h2>
  <p>Please verify your email address by clicking the button below:</p>
  <a href="%s"
     style="display: inline-block; background: #007bff; color: white; padding: 12px 24px;
            text-decoration: none; border-radius: 4px; margin: 16px 0;">
    Verify Email
  </a>
  <p>Or enter this verification code:</p>
  <div style="background: #f5f5f5; padding: 16px; border-radius: 8px; text-align: center; margin: 16px 0;">
    <span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #333;">%s</span>
  </div>
  <p style="color: #666; font-size: 12px;">
    This code will expire in 24 hours. If you didn't create an account, please ignore this email.
  </p>
</div>`

const resetBodyHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset Request</h2>
  <p>Hi %s,</p>
  <p>Click the button below to reset your password:</p>
  <a href="%s"
     style="display: inline-block; background: #dc3545; color: white; padding: 12px 24px;
            text-decoration: none; border-radius: 4px; margin: 16px 0;">
    Reset Password
  </a>
  <p>Or enter this reset code:</p>
  <div style="background: #f5f5f5; padding: 16px; border-radius: 8px; text-align: center; margin: 16px 0;">
    <span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #333;">%s</span>
  </div>
  <p style="color: #666; font-size: 12px;">
    This code will expire in 1 hour. If you didn't request a password reset, please ignore this email.
  </p>
</div>`
