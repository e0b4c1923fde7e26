package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/devday/devday/internal/core"
)

type contextKey string

const userKey contextKey = "devday.user"

// SessionCookie is the cookie browsers carry the session token in.
// API clients use an Authorization bearer header instead.
const SessionCookie = "devday_session"

// Middleware resolves the session token on each request and injects
// the user into the request context. Requests without a valid session
// get a uniform 401.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.Authenticate(tokenFromRequest(r))
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *core.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the authenticated user from the context, if any.
func UserFrom(ctx context.Context) (*core.User, bool) {
	user, ok := ctx.Value(userKey).(*core.User)
	return user, ok
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
