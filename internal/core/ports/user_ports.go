package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

type RoleRepository interface {
	ListRoles(ctx context.Context, userID uuid.UUID) ([]domain.Role, error)
	Grant(ctx context.Context, userID uuid.UUID, role domain.Role) error
	Revoke(ctx context.Context, userID uuid.UUID, role domain.Role) error
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
