package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
	"github.com/vncsmyrnk/pollhub/internal/core/services"
)

func TestSummarizeAllVotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	quiet := f.createPoll(t, newUser())
	popular := f.createPoll(t, newUser())

	for range 3 {
		_, err := f.votes.Vote(ctx, newUser(), ports.VoteInput{PollID: popular.ID, OptionIndex: 1})
		require.NoError(t, err)
	}

	svc := services.NewSummaryService(f.store.Polls(), f.store.Results())
	require.NoError(t, svc.SummarizeAllVotes(ctx))

	summaries, err := f.store.Results().GetSummaries(ctx, popular.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].OptionIndex)
	assert.Equal(t, int64(3), summaries[0].VoteCount)

	listed, err := f.polls.ListPolls(ctx, ports.ListPollsInput{Page: 1})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, popular.ID, listed[0].ID)
	assert.Equal(t, quiet.ID, listed[1].ID)
}

type failingResults struct{}

func (failingResults) SummarizeVotes(ctx context.Context, pollID uuid.UUID) error {
	return errors.New("deadlock detected")
}

func (failingResults) GetSummaries(ctx context.Context, pollID uuid.UUID) ([]domain.PollSummary, error) {
	return nil, nil
}

func TestSummarizeAllVotes_ReportsFailure(t *testing.T) {
	f := newFixture()
	f.createPoll(t, newUser())

	err := services.NewSummaryService(f.store.Polls(), failingResults{}).SummarizeAllVotes(context.Background())
	assert.ErrorContains(t, err, "deadlock detected")
}
