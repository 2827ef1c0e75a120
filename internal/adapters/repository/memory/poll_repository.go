package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

type PollRepository struct {
	s *Store
}

var _ ports.PollRepository = (*PollRepository)(nil)

func (r *PollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.polls[poll.ID]; exists {
		return fmt.Errorf("poll with ID %s already exists", poll.ID)
	}
	r.s.polls[poll.ID] = copyPoll(poll)
	return nil
}

func (r *PollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	poll, exists := r.s.polls[id]
	if !exists {
		return nil, domain.ErrPollNotFound
	}
	return copyPoll(poll), nil
}

func (r *PollRepository) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	return r.collect(func(*domain.Poll) bool { return true }, r.newestFirst), nil
}

func (r *PollRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Poll, error) {
	return r.collect(func(p *domain.Poll) bool { return p.UserID == ownerID }, r.newestFirst), nil
}

func (r *PollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	polls := r.collect(func(*domain.Poll) bool { return true }, r.mostVotedFirst)
	return page(polls, limit, offset), nil
}

func (r *PollRepository) Search(ctx context.Context, limit, offset int, query string) ([]*domain.Poll, error) {
	q := strings.ToLower(query)
	polls := r.collect(func(p *domain.Poll) bool {
		return strings.Contains(strings.ToLower(p.Question), q)
	}, r.mostVotedFirst)
	return page(polls, limit, offset), nil
}

func (r *PollRepository) UpdateOwned(ctx context.Context, poll *domain.Poll, ownerID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, exists := r.s.polls[poll.ID]
	if !exists || current.UserID != ownerID {
		return 0, nil
	}
	current.Question = poll.Question
	current.Options = append([]string(nil), poll.Options...)
	current.UpdatedAt = poll.UpdatedAt
	return 1, nil
}

func (r *PollRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, exists := r.s.polls[id]
	if !exists || current.UserID != ownerID {
		return 0, nil
	}
	r.s.deletePollLocked(id)
	return 1, nil
}

func (r *PollRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.polls[id]; !exists {
		return 0, nil
	}
	r.s.deletePollLocked(id)
	return 1, nil
}

func (r *PollRepository) collect(keep func(*domain.Poll) bool, less func(a, b *domain.Poll) bool) []*domain.Poll {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	polls := []*domain.Poll{}
	for _, p := range r.s.polls {
		if keep(p) {
			polls = append(polls, copyPoll(p))
		}
	}
	sort.SliceStable(polls, func(i, j int) bool { return less(polls[i], polls[j]) })
	return polls
}

func (r *PollRepository) newestFirst(a, b *domain.Poll) bool {
	return a.CreatedAt.After(b.CreatedAt)
}

// mostVotedFirst must be called with the store lock held.
func (r *PollRepository) mostVotedFirst(a, b *domain.Poll) bool {
	va, vb := r.summarizedTotal(a.ID), r.summarizedTotal(b.ID)
	if va != vb {
		return va > vb
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (r *PollRepository) summarizedTotal(pollID uuid.UUID) int64 {
	var total int64
	for _, s := range r.s.summaries[pollID] {
		total += s.VoteCount
	}
	return total
}

func page(polls []*domain.Poll, limit, offset int) []*domain.Poll {
	if offset < 0 || limit <= 0 || offset >= len(polls) {
		return []*domain.Poll{}
	}
	end := offset + limit
	if end > len(polls) || end < offset {
		end = len(polls)
	}
	return polls[offset:end]
}
