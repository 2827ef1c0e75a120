package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

type UserRepository struct {
	s *Store
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, exists := r.s.users[id]
	if !exists {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// Create assigns an id when the user has none, like the users table
// default does.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return fmt.Errorf("user with email %s already exists", user.Email)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	c := *user
	c.Roles = nil
	r.s.users[user.ID] = &c
	return nil
}

type RoleRepository struct {
	s *Store
}

var _ ports.RoleRepository = (*RoleRepository)(nil)

func (r *RoleRepository) ListRoles(ctx context.Context, userID uuid.UUID) ([]domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	roles := []domain.Role{}
	for role := range r.s.roles[userID] {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles, nil
}

func (r *RoleRepository) Grant(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[userID]; !exists {
		return fmt.Errorf("user %s not found", userID)
	}
	if r.s.roles[userID] == nil {
		r.s.roles[userID] = make(map[domain.Role]struct{})
	}
	r.s.roles[userID][role] = struct{}{}
	return nil
}

func (r *RoleRepository) Revoke(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.roles[userID], role)
	return nil
}

type AuthRepository struct {
	s *Store
}

var _ ports.AuthRepository = (*AuthRepository)(nil)

func (r *AuthRepository) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	token.ID = uuid.New()
	token.CreatedAt = time.Now().UTC()
	c := *token
	r.s.refreshTokens[token.TokenHash] = &c
	return nil
}

func (r *AuthRepository) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, exists := r.s.refreshTokens[tokenHash]
	if !exists {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (r *AuthRepository) RevokeRefreshToken(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.refreshTokens {
		if t.ID.String() == id {
			t.Revoked = true
		}
	}
	return nil
}
