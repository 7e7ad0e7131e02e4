package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rh "github.com/coreybb/authbase/route-handlers"
	"github.com/coreybb/authbase/webutil"
)

const (
	apiBasePath  = "/api"
	authBasePath = "/auth"
)

func SetupRoutes(authHandler *rh.AuthHandler) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(SetHeader(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8)) // Default Content-Type

	r.Route(apiBasePath, func(r chi.Router) {
		configureAuthRoutes(r, authHandler)
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

func configureAuthRoutes(r chi.Router, handler *rh.AuthHandler) {
	r.Route(authBasePath, func(r chi.Router) {
		r.Post("/register", webutil.MakeHandler(handler.HandleRegister))
		r.Post("/verify-email", webutil.MakeHandler(handler.HandleVerifyEmail))
		r.Post("/resend-verification", webutil.MakeHandler(handler.HandleResendVerification))
		r.Post("/request-password-reset", webutil.MakeHandler(handler.HandleRequestPasswordReset))
		r.Post("/reset-password", webutil.MakeHandler(handler.HandleResetPassword))
		r.Post("/login", webutil.MakeHandler(handler.HandleLogin))
		r.Post("/google", webutil.MakeHandler(handler.HandleGoogleAuth))
		r.Post("/logout", webutil.MakeHandler(handler.HandleLogout))
		r.Get("/me", webutil.MakeHandler(handler.HandleMe))
	})
}

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// SetHeader is a middleware to set a response header.
func SetHeader(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, value)
			next.ServeHTTP(w, r)
		})
	}
}
