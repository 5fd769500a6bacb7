package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fleetbook/driverapp/internal/auth"
)

// TokenParser verifies a bearer token and returns the user it was issued to.
type TokenParser interface {
	Parse(token string) (string, error)
}

// NewAuthenticator returns a middleware that reads the bearer token, verifies
// it and stores the user id and raw token on the request context. Requests
// without an Authorization header pass through anonymously; the session layer
// decides what an anonymous caller may see. A malformed or invalid token is
// rejected with 401.
func NewAuthenticator(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "malformed authorization header")
				return
			}
			token = strings.TrimSpace(token)

			userID, err := tokens.Parse(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
				return
			}

			ctx := auth.WithUserID(r.Context(), userID)
			ctx = auth.WithToken(ctx, token)
			recordUser(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeError writes the API error envelope. Handlers have their own copy;
// middleware cannot import the handler package.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
