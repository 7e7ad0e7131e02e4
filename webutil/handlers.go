package webutil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// AppHandler represents a handler function that returns an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to the standard http.HandlerFunc
// signature, logging any returned error and sending a standardized JSON
// error response. Flow-level auth errors are expected to be handled by
// the handler itself; anything that reaches this point is either an
// explicit HTTPError or an internal failure.
//
// The writer is wrapped so a written status is observable: headers may
// be populated by middleware before the handler runs, so the header map
// alone says nothing about whether a response went out.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		err := handler(ww, r)
		if err == nil {
			return
		}

		var statusCode int
		var publicMessage string

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			statusCode = httpErr.Code
			publicMessage = httpErr.Message
			logLevel := slog.LevelWarn
			if statusCode >= 500 {
				logLevel = slog.LevelError
			}
			slog.Log(r.Context(), logLevel, "Client error response",
				"code", httpErr.Code,
				"msg", httpErr.Message,
				"path", r.URL.Path,
				"method", r.Method,
			)
		} else {
			statusCode = http.StatusInternalServerError
			publicMessage = msgInternalServer
			slog.Error("Unhandled internal error",
				"path", r.URL.Path,
				"method", r.Method,
				"error", err,
			)
		}

		if ww.Status() != 0 {
			slog.Warn("Handler returned error after writing response",
				"path", r.URL.Path,
				"method", r.Method,
				"error", err,
			)
			return
		}

		RespondWithJSON(ww, statusCode, map[string]any{
			"success": false,
			"message": publicMessage,
		})
	}
}
