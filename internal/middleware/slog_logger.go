// Package middleware provides HTTP middleware for the driver app API server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fleetbook/driverapp/internal/auth"
)

// NewSlogLogger returns a middleware that logs each request as a structured
// line via the provided slog.Logger: method, path, status, duration, the
// request ID set by chi's RequestID middleware and, once authenticated, the
// caller's user id. Server errors are logged at error level.
//
// Wire it after chimiddleware.RequestID so the request ID is available.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// The authenticator runs further in, so the user id is published
			// back through this holder rather than read from r.
			holder := &userHolder{}
			next.ServeHTTP(ww, r.WithContext(withUserHolder(r.Context(), holder)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			}
			if holder.userID != "" {
				attrs = append(attrs, "user_id", holder.userID)
			}
			log.Log(r.Context(), level, "request", attrs...)
		})
	}
}

type userHolder struct {
	userID string
}

type holderKey struct{}

func withUserHolder(ctx context.Context, h *userHolder) context.Context {
	return context.WithValue(ctx, holderKey{}, h)
}

// recordUser publishes the authenticated user id to an enclosing request logger.
func recordUser(ctx context.Context) {
	h, ok := ctx.Value(holderKey{}).(*userHolder)
	if !ok {
		return
	}
	if id, ok := auth.UserIDFrom(ctx); ok {
		h.userID = id
	}
}
