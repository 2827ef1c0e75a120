package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
	"github.com/vncsmyrnk/pollhub/internal/core/services"
)

func TestVote(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice, bob := newUser(), newUser()
	poll := f.createPoll(t, alice, "A", "B", "C")

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.votes.Vote(ctx, nil, ports.VoteInput{PollID: poll.ID, OptionIndex: 0})
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("out of range", func(t *testing.T) {
		for _, idx := range []int{-1, 3, 100} {
			_, err := f.votes.Vote(ctx, bob, ports.VoteInput{PollID: poll.ID, OptionIndex: idx})
			assert.ErrorIs(t, err, domain.ErrInvalidOption, idx)
		}
	})

	t.Run("missing poll", func(t *testing.T) {
		_, err := f.votes.Vote(ctx, bob, ports.VoteInput{PollID: uuid.New(), OptionIndex: 0})
		assert.ErrorIs(t, err, domain.ErrPollNotFound)
	})

	t.Run("once per user", func(t *testing.T) {
		vote, err := f.votes.Vote(ctx, bob, ports.VoteInput{PollID: poll.ID, OptionIndex: 2})
		require.NoError(t, err)
		assert.Equal(t, bob.ID, vote.UserID)
		assert.Equal(t, 2, vote.OptionIndex)

		_, err = f.votes.Vote(ctx, bob, ports.VoteInput{PollID: poll.ID, OptionIndex: 0})
		assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

		mine, err := f.votes.GetMyVote(ctx, bob, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, mine.OptionIndex)
	})

	t.Run("owner may vote", func(t *testing.T) {
		_, err := f.votes.Vote(ctx, alice, ports.VoteInput{PollID: poll.ID, OptionIndex: 0})
		assert.NoError(t, err)
	})
}

func TestVote_ConcurrentSubmissionsKeepOne(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	poll := f.createPoll(t, newUser())
	voter := newUser()

	const attempts = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		already int
	)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.votes.Vote(ctx, voter, ports.VoteInput{PollID: poll.ID, OptionIndex: i % 2})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, domain.ErrAlreadyVoted):
				already++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	assert.Equal(t, attempts-1, already)

	results, err := f.votes.GetResults(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), results.TotalVotes)
}

// staleVoteRepo answers HasVoted from before a concurrent insert landed.
type staleVoteRepo struct {
	ports.VoteRepository
}

func (staleVoteRepo) HasVoted(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	return false, nil
}

func TestVote_UniqueViolationIsAlreadyVoted(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	poll := f.createPoll(t, newUser())
	voter := newUser()

	svc := services.NewVoteService(f.store.Polls(), staleVoteRepo{VoteRepository: f.store.Votes()})

	_, err := svc.Vote(ctx, voter, ports.VoteInput{PollID: poll.ID, OptionIndex: 0})
	require.NoError(t, err)

	_, err = svc.Vote(ctx, voter, ports.VoteInput{PollID: poll.ID, OptionIndex: 1})
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	var storeErr *domain.StoreError
	assert.NotErrorAs(t, err, &storeErr)
}

func TestGetMyVote(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	poll := f.createPoll(t, newUser())

	_, err := f.votes.GetMyVote(ctx, nil, poll.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.votes.GetMyVote(ctx, newUser(), poll.ID)
	assert.ErrorIs(t, err, domain.ErrVoteNotFound)

	_, err = f.votes.GetMyVote(ctx, newUser(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestGetResults(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := newUser()
	poll := f.createPoll(t, owner, "A", "B", "C")

	for _, idx := range []int{0, 0, 2, 2} {
		_, err := f.votes.Vote(ctx, newUser(), ports.VoteInput{PollID: poll.ID, OptionIndex: idx})
		require.NoError(t, err)
	}

	results, err := f.votes.GetResults(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), results.TotalVotes)
	require.Len(t, results.Options, 3)
	assert.Equal(t, int64(2), results.Options[0].Votes)
	assert.Equal(t, int64(0), results.Options[1].Votes)
	assert.InDelta(t, 50.0, results.Options[2].Percentage, 0.001)

	t.Run("votes past the end after an edit count in the total only", func(t *testing.T) {
		_, err := f.polls.Update(ctx, owner, ports.UpdatePollInput{PollID: poll.ID, Question: "Q?", Options: []string{"A", "B"}})
		require.NoError(t, err)

		results, err := f.votes.GetResults(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), results.TotalVotes)
		require.Len(t, results.Options, 2)
		assert.Equal(t, int64(2), results.Options[0].Votes)
		assert.InDelta(t, 50.0, results.Options[0].Percentage, 0.001)
	})

	t.Run("empty poll", func(t *testing.T) {
		empty := f.createPoll(t, owner)
		results, err := f.votes.GetResults(ctx, empty.ID)
		require.NoError(t, err)
		assert.Zero(t, results.TotalVotes)
		assert.Zero(t, results.Options[0].Percentage)
	})

	_, err = f.votes.GetResults(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestDeletePoll_CascadesVotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner, voter := newUser(), newUser()
	poll := f.createPoll(t, owner)

	_, err := f.votes.Vote(ctx, voter, ports.VoteInput{PollID: poll.ID, OptionIndex: 1})
	require.NoError(t, err)
	require.NoError(t, f.polls.Delete(ctx, owner, poll.ID))

	vote, err := f.store.Votes().GetUserVote(ctx, poll.ID, voter.ID)
	require.NoError(t, err)
	assert.Nil(t, vote)

	_, err = f.votes.GetMyVote(ctx, voter, poll.ID)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}
