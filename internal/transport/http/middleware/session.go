package middleware

import (
	"context"
	"net/http"

	"mencrytoo/internal/model"
	"mencrytoo/internal/session"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// SessionUserKey is the context key for the authenticated user snapshot
	SessionUserKey contextKey = "session_user"
)

// SessionMiddleware attaches the session user snapshot to the request
// context when a valid session cookie is present. It never rejects: pages
// render for anonymous visitors too, and loaders decide what a missing
// session means for their route.
func SessionMiddleware(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := sessions.FromRequest(r); ok {
				ctx := context.WithValue(r.Context(), SessionUserKey, user)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the session user snapshot from the request
// context. Returns nil, false for anonymous requests.
func GetUserFromContext(ctx context.Context) (*model.SessionUser, bool) {
	user, ok := ctx.Value(SessionUserKey).(*model.SessionUser)
	return user, ok
}
