package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

type VoteRepository struct {
	s *Store
}

var _ ports.VoteRepository = (*VoteRepository)(nil)

// SaveVote checks and inserts under one lock, the in-memory equivalent
// of UNIQUE (poll_id, user_id).
func (r *VoteRepository) SaveVote(ctx context.Context, vote *domain.Vote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.polls[vote.PollID]; !exists {
		return domain.ErrPollNotFound
	}
	key := voteKey{pollID: vote.PollID, userID: vote.UserID}
	if _, exists := r.s.votes[key]; exists {
		return domain.ErrAlreadyVoted
	}
	v := *vote
	r.s.votes[key] = &v
	return nil
}

func (r *VoteRepository) HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, exists := r.s.votes[voteKey{pollID: pollID, userID: userID}]
	return exists, nil
}

func (r *VoteRepository) GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	vote, exists := r.s.votes[voteKey{pollID: pollID, userID: userID}]
	if !exists {
		return nil, nil
	}
	v := *vote
	return &v, nil
}

func (r *VoteRepository) CountByOption(ctx context.Context, pollID uuid.UUID) (map[int]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[int]int64)
	for k, v := range r.s.votes {
		if k.pollID == pollID {
			counts[v.OptionIndex]++
		}
	}
	return counts, nil
}

type PollResultRepository struct {
	s *Store
}

var _ ports.PollResultRepository = (*PollResultRepository)(nil)

func (r *PollResultRepository) SummarizeVotes(ctx context.Context, pollID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	rows := make(map[int]domain.PollSummary)
	for k, v := range r.s.votes {
		if k.pollID != pollID {
			continue
		}
		row := rows[v.OptionIndex]
		row.PollID = pollID
		row.OptionIndex = v.OptionIndex
		row.VoteCount++
		row.LastUpdatedAt = now
		rows[v.OptionIndex] = row
	}
	r.s.summaries[pollID] = rows
	return nil
}

func (r *PollResultRepository) GetSummaries(ctx context.Context, pollID uuid.UUID) ([]domain.PollSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	summaries := []domain.PollSummary{}
	for _, row := range r.s.summaries[pollID] {
		summaries = append(summaries, row)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].OptionIndex < summaries[j].OptionIndex })
	return summaries, nil
}
