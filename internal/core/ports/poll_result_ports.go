package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

type PollResultRepository interface {
	SummarizeVotes(ctx context.Context, pollID uuid.UUID) error
	GetSummaries(ctx context.Context, pollID uuid.UUID) ([]domain.PollSummary, error)
}

type SummaryService interface {
	SummarizeAllVotes(ctx context.Context) error
}
