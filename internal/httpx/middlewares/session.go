// Package middlewares carries the HTTP middleware specific to the
// storefront: session resolution on top of chi's stock chain.
package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/crumbsugar/storefront/internal/auth"
)

type ctxKey string

const sessionKey ctxKey = "session"

// Verifier is the slice of the auth client the middleware needs.
type Verifier interface {
	Verify(ctx context.Context, token string) (auth.Session, error)
}

// ResolveSession extracts the bearer token, verifies it against the auth
// service, and stores the session in the request context. Requests without
// a valid token continue as guests; authorization is decided per-handler.
func ResolveSession(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// An expired token downgrades to guest rather than
				// failing every read endpoint.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	session, ok := ctx.Value(sessionKey).(auth.Session)
	return session, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
