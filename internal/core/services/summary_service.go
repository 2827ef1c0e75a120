package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

const summaryConcurrency = 8

type summaryService struct {
	pollRepo       ports.PollRepository
	pollResultRepo ports.PollResultRepository
}

func NewSummaryService(pollRepo ports.PollRepository, pollResultRepo ports.PollResultRepository) ports.SummaryService {
	return &summaryService{
		pollRepo:       pollRepo,
		pollResultRepo: pollResultRepo,
	}
}

func (s *summaryService) SummarizeAllVotes(ctx context.Context) error {
	polls, err := s.pollRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all polls: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryConcurrency)

	for _, poll := range polls {
		pollID := poll.ID
		g.Go(func() error {
			if err := s.pollResultRepo.SummarizeVotes(ctx, pollID); err != nil {
				return fmt.Errorf("failed to summarize poll %s: %w", pollID, err)
			}
			return nil
		})
	}

	return g.Wait()
}

