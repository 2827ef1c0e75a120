package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Poll, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Poll, error)
	Search(ctx context.Context, limit, offset int, query string) ([]*domain.Poll, error)
	// UpdateOwned replaces question and options of the poll only when it
	// belongs to ownerID. It returns the number of polls changed.
	UpdateOwned(ctx context.Context, poll *domain.Poll, ownerID uuid.UUID) (int64, error)
	// DeleteOwned removes the poll only when it belongs to ownerID.
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type CreatePollInput struct {
	Question string
	Options  []string
}

type UpdatePollInput struct {
	PollID   uuid.UUID
	Question string
	Options  []string
}

type ListPollsInput struct {
	Page  int
	Query string
}

type PollService interface {
	Create(ctx context.Context, identity *domain.User, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	ListPolls(ctx context.Context, input ListPollsInput) ([]*domain.Poll, error)
	ListMyPolls(ctx context.Context, identity *domain.User) ([]*domain.Poll, error)
	Update(ctx context.Context, identity *domain.User, input UpdatePollInput) (*domain.Poll, error)
	Delete(ctx context.Context, identity *domain.User, pollID uuid.UUID) error
	AdminListPolls(ctx context.Context, identity *domain.User) ([]*domain.Poll, error)
	AdminDeletePoll(ctx context.Context, identity *domain.User, pollID uuid.UUID) error
}
