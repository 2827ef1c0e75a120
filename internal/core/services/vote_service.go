package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/policy"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
	}
}

// Vote records a single vote of identity on a poll. The HasVoted lookup
// only gives an early answer; the store's unique (poll, user) constraint
// decides concurrent submissions.
func (s *voteService) Vote(ctx context.Context, identity *domain.User, input ports.VoteInput) (*domain.Vote, error) {
	if !policy.CanVote(identity) {
		return nil, domain.ErrUnauthenticated
	}

	hasVoted, err := s.voteRepo.HasVoted(ctx, input.PollID, identity.ID)
	if err != nil {
		return nil, storeErr("check existing vote", err)
	}
	if hasVoted {
		return nil, domain.ErrAlreadyVoted
	}

	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, storeErr("get poll", err)
	}

	if input.OptionIndex < 0 || input.OptionIndex >= len(poll.Options) {
		return nil, domain.ErrInvalidOption
	}

	vote := &domain.Vote{
		ID:          uuid.New(),
		PollID:      poll.ID,
		UserID:      identity.ID,
		OptionIndex: input.OptionIndex,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.voteRepo.SaveVote(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			return nil, domain.ErrAlreadyVoted
		}
		return nil, storeErr("save vote", err)
	}
	return vote, nil
}

func (s *voteService) GetMyVote(ctx context.Context, identity *domain.User, pollID uuid.UUID) (*domain.Vote, error) {
	if !policy.Authenticated(identity) {
		return nil, domain.ErrUnauthenticated
	}

	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return nil, storeErr("get poll", err)
	}

	vote, err := s.voteRepo.GetUserVote(ctx, pollID, identity.ID)
	if err != nil {
		return nil, storeErr("get vote", err)
	}
	if vote == nil {
		return nil, domain.ErrVoteNotFound
	}
	return vote, nil
}

// GetResults aggregates live vote counts. Votes pointing past the end of
// the current option list (left over from an edit) count toward the
// total only.
func (s *voteService) GetResults(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, storeErr("get poll", err)
	}

	counts, err := s.voteRepo.CountByOption(ctx, pollID)
	if err != nil {
		return nil, storeErr("count votes", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	results := &domain.PollResults{
		PollID:     poll.ID,
		Question:   poll.Question,
		Options:    make([]domain.OptionResult, len(poll.Options)),
		TotalVotes: total,
	}
	for i, text := range poll.Options {
		votes := counts[i]
		percentage := 0.0
		if total > 0 {
			percentage = (float64(votes) / float64(total)) * 100
		}
		results.Options[i] = domain.OptionResult{
			Index:      i,
			Text:       text,
			Votes:      votes,
			Percentage: percentage,
		}
	}
	return results, nil
}
