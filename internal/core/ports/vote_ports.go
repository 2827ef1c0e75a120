package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

type VoteRepository interface {
	// SaveVote returns domain.ErrAlreadyVoted when the store already holds
	// a vote for the same poll and user.
	SaveVote(ctx context.Context, vote *domain.Vote) error
	HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
	GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error)
	// CountByOption returns live vote counts keyed by option index.
	CountByOption(ctx context.Context, pollID uuid.UUID) (map[int]int64, error)
}

type VoteInput struct {
	PollID      uuid.UUID
	OptionIndex int
}

type VoteService interface {
	Vote(ctx context.Context, identity *domain.User, input VoteInput) (*domain.Vote, error)
	GetMyVote(ctx context.Context, identity *domain.User, pollID uuid.UUID) (*domain.Vote, error)
	GetResults(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error)
}
