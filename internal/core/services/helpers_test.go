package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollhub/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
	"github.com/vncsmyrnk/pollhub/internal/core/services"
)

type fixture struct {
	store *memory.Store
	polls ports.PollService
	votes ports.VoteService
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		store: store,
		polls: services.NewPollService(store.Polls()),
		votes: services.NewVoteService(store.Polls(), store.Votes()),
	}
}

func newUser(roles ...domain.Role) *domain.User {
	return &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Roles: roles}
}

func (f *fixture) createPoll(t *testing.T, owner *domain.User, options ...string) *domain.Poll {
	t.Helper()
	if len(options) == 0 {
		options = []string{"A", "B"}
	}
	poll, err := f.polls.Create(context.Background(), owner, ports.CreatePollInput{Question: "Q?", Options: options})
	require.NoError(t, err)
	return poll
}
