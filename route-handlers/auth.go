package routehandlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coreybb/authbase/auth"
	"github.com/coreybb/authbase/datastore"
	"github.com/coreybb/authbase/models"
	"github.com/coreybb/authbase/session"
	"github.com/coreybb/authbase/webutil"
)

// AuthService is the flow surface the HTTP layer calls into.
type AuthService interface {
	Register(ctx context.Context, email, name, password string) (*auth.RegisterResult, error)
	VerifyEmail(ctx context.Context, email, code string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) (string, error)
	Login(ctx context.Context, email, password string) (*models.PublicProfile, error)
	GoogleAuth(ctx context.Context, credential string) (*auth.GoogleAuthResult, error)
}

// UserFinder resolves the profile behind an established session.
type UserFinder interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

type AuthHandler struct {
	service  AuthService
	users    UserFinder
	sessions *session.Manager
}

func NewAuthHandler(service AuthService, users UserFinder, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{service: service, users: users, sessions: sessions}
}

// envelope is the uniform response shape for every auth endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	result, err := h.service.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		return respondFlowError(w, err)
	}
	webutil.RespondWithJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: result.Message,
		Data:    result,
	})
	return nil
}

func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	message, err := h.service.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		return respondFlowError(w, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, envelope{Success: true, Message: message})
	return nil
}

func (h *AuthHandler) HandleResendVerification(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	message, err := h.service.ResendVerification(r.Context(), req.Email)
	if err != nil {
		return respondFlowError(w, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, envelope{Success: true, Message: message})
	return nil
}

func (h *AuthHandler) HandleRequestPasswordReset(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	message, err := h.service.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		return respondFlowError(w, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, envelope{Success: true, Message: message})
	return nil
}

func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	message, err := h.service.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		return respondFlowError(w, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, envelope{Success: true, Message: message})
	return nil
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	profile, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return respondFlowError(w, err)
	}

	token, err := h.sessions.Sign(profile.ID)
	if err != nil {
		return webutil.ErrInternalServerWrap("Failed to sign session token", err)
	}
	h.sessions.SetCookie(w, token)

	webutil.RespondWithJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Login successful.",
		Data:    map[string]any{"user": profile},
	})
	return nil
}

func (h *AuthHandler) HandleGoogleAuth(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Credential string `json:"credential"`
	}
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	result, err := h.service.GoogleAuth(r.Context(), req.Credential)
	if err != nil {
		return respondFlowError(w, err)
	}

	token, err := h.sessions.Sign(result.Profile.ID)
	if err != nil {
		return webutil.ErrInternalServerWrap("Failed to sign session token", err)
	}
	h.sessions.SetCookie(w, token)

	webutil.RespondWithJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Login successful.",
		Data:    result,
	})
	return nil
}

// HandleLogout clears the session cookie unconditionally; there is no
// failure mode visible to the client.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) error {
	h.sessions.ClearCookie(w)
	webutil.RespondWithJSON(w, http.StatusOK, envelope{Success: true, Message: "Logged out."})
	return nil
}

// HandleMe returns the profile behind the current session, re-reading
// the store so the client never sees stale verification state.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) error {
	userID := h.sessions.UserIDFromRequest(r)
	if userID == "" {
		return webutil.ErrUnauthorized("Not logged in")
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			// Session refers to a user that no longer exists.
			h.sessions.ClearCookie(w)
			return webutil.ErrUnauthorized("Not logged in")
		}
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    map[string]any{"user": user.Public()},
	})
	return nil
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()
	return nil
}
