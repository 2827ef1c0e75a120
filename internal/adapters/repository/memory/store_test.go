package memory

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

func newPoll(owner uuid.UUID, question string) *domain.Poll {
	now := time.Now().UTC()
	return &domain.Poll{
		ID:        uuid.New(),
		UserID:    owner,
		Question:  question,
		Options:   []string{"a", "b"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSaveVote_OneWinner(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	poll := newPoll(uuid.New(), "Q")
	require.NoError(t, s.Polls().Save(ctx, poll))
	voter := uuid.New()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Votes().SaveVote(ctx, &domain.Vote{ID: uuid.New(), PollID: poll.ID, UserID: voter})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	counts, err := s.Votes().CountByOption(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{0: 1}, counts)
}

func TestSaveVote_MissingPoll(t *testing.T) {
	err := NewStore().Votes().SaveVote(context.Background(), &domain.Vote{PollID: uuid.New(), UserID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestDelete_Cascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	owner := uuid.New()
	poll := newPoll(owner, "Q")
	require.NoError(t, s.Polls().Save(ctx, poll))
	require.NoError(t, s.Votes().SaveVote(ctx, &domain.Vote{PollID: poll.ID, UserID: uuid.New(), OptionIndex: 1}))
	require.NoError(t, s.Results().SummarizeVotes(ctx, poll.ID))

	n, err := s.Polls().DeleteOwned(ctx, poll.ID, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Polls().DeleteOwned(ctx, poll.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	counts, err := s.Votes().CountByOption(ctx, poll.ID)
	require.NoError(t, err)
	assert.Empty(t, counts)
	summaries, err := s.Results().GetSummaries(ctx, poll.ID)
	require.NoError(t, err)
	assert.Empty(t, summaries)

	n, err = s.Polls().Delete(ctx, poll.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateOwned(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	owner := uuid.New()
	poll := newPoll(owner, "Q")
	require.NoError(t, s.Polls().Save(ctx, poll))

	edit := *poll
	edit.Question = "Changed"
	edit.Options = []string{"x", "y", "z"}

	n, err := s.Polls().UpdateOwned(ctx, &edit, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Polls().UpdateOwned(ctx, &edit, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := s.Polls().GetByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", stored.Question)
	assert.Equal(t, owner, stored.UserID)

	// callers cannot reach into the store through returned polls
	stored.Options[0] = "mutated"
	again, err := s.Polls().GetByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", again.Options[0])
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	user := &domain.User{Email: "a@example.com"}
	require.NoError(t, s.Users().Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Error(t, s.Users().Create(ctx, &domain.User{Email: "a@example.com"}))

	assert.Error(t, s.Roles().Grant(ctx, uuid.New(), domain.RoleAdmin))
	require.NoError(t, s.Roles().Grant(ctx, user.ID, domain.RoleAdmin))
	require.NoError(t, s.Roles().Grant(ctx, user.ID, domain.RoleAdmin))

	roles, err := s.Roles().ListRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{domain.RoleAdmin}, roles)

	missing, err := s.Users().GetByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPage_Bounds(t *testing.T) {
	polls := []*domain.Poll{newPoll(uuid.New(), "a"), newPoll(uuid.New(), "b"), newPoll(uuid.New(), "c")}

	assert.Len(t, page(polls, 2, 0), 2)
	assert.Len(t, page(polls, 2, 2), 1)
	assert.Empty(t, page(polls, 2, 3))
	assert.Empty(t, page(polls, 10, -9223372036854775806))
	assert.Empty(t, page(polls, 0, 0))
	assert.Len(t, page(polls, math.MaxInt, 1), 2)
}
