package ports

import (
	"context"

	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

type AuthRepository interface {
	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string) error
}

type TokenPayload struct {
	Email string
	Name  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}

// IdentityProvider resolves the access token of a request to a user.
// A missing, malformed or expired token yields a nil user and no error;
// only lookup failures are reported, as *domain.AuthError.
type IdentityProvider interface {
	Identify(ctx context.Context, accessToken string) (*domain.User, error)
}

type AuthService interface {
	IdentityProvider
	LoginWithGoogle(ctx context.Context, googleToken string) (string, string, error) // returns access_token, refresh_token, error
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
}
