// internal/app/system/auth/auth.go

// Package auth injects the verified token identity into the request
// context and gates API routes on it.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/campuschat/campuschat/internal/app/system/httpjson"
	"github.com/campuschat/campuschat/internal/app/system/token"
)

// SessionUser is the identity extracted from a verified session token.
type SessionUser struct {
	ID     string
	Name   string
	Email  string
	Branch string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated user and a "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// RequireAuth verifies the bearer token (Authorization header or
// `token` query parameter) and injects the SessionUser into context.
// Requests without a valid token get a 401 JSON error.
func RequireAuth(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ""
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimPrefix(h, "Bearer ")
			}
			if raw == "" {
				raw = r.URL.Query().Get("token")
			}
			if raw == "" {
				httpjson.Error(w, http.StatusUnauthorized, "missing token")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				httpjson.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			u := &SessionUser{
				ID:     claims.UserID(),
				Name:   claims.Name,
				Email:  claims.Email,
				Branch: claims.Branch,
			}
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), currentUserKey, u)))
		})
	}
}
