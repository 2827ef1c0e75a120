package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

const accessTokenCookie = "access_token"

type identityKey struct{}

// Authenticate attaches the caller's identity to the request context.
// Requests without a valid token go through anonymously; the services
// decide what an anonymous caller may do.
func Authenticate(provider ports.IdentityProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := accessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := provider.Identify(r.Context(), token)
			if err != nil {
				writeError(w, r, asAuthError(err))
				return
			}
			if user != nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey{}, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext returns the authenticated user, or nil.
func IdentityFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(identityKey{}).(*domain.User)
	return user
}

func accessToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func asAuthError(err error) error {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return err
	}
	return &domain.AuthError{Err: err}
}
