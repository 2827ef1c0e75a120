package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func TestPollLifecycle(t *testing.T) {
	app := setupTestApp(t)
	aliceID, alice := app.createUserAndToken(t)
	_, bob := app.createUserAndToken(t)

	poll := app.createPoll(t, alice, "  Favourite colour?  ", " Red ", "Green", "", "Blue")
	assert.Equal(t, "Favourite colour?", poll.Question)
	assert.Equal(t, []string{"Red", "Green", "Blue"}, poll.Options)
	assert.Equal(t, aliceID, poll.UserID)
	path := "/api/polls/" + poll.ID.String()

	t.Run("public read", func(t *testing.T) {
		resp := app.request(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decodeBody[domain.Poll](t, resp)
		assert.Equal(t, poll.Options, got.Options)

		resp = app.request(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, got, decodeBody[domain.Poll](t, resp))
	})

	t.Run("non-owner edit is denied and leaves the poll untouched", func(t *testing.T) {
		resp := app.request(t, http.MethodPut, path, bob, map[string]any{"question": "Hijacked", "options": []string{"x", "y"}})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		body := decodeBody[errorBody](t, resp)
		assert.Equal(t, "poll not found or you do not have permission to change it", body.Error)

		resp = app.request(t, http.MethodGet, path, "", nil)
		assert.Equal(t, "Favourite colour?", decodeBody[domain.Poll](t, resp).Question)
	})

	t.Run("non-owner delete is denied", func(t *testing.T) {
		resp := app.request(t, http.MethodDelete, path, bob, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("invalid edit", func(t *testing.T) {
		resp := app.request(t, http.MethodPut, path, alice, map[string]any{"question": "Q", "options": []string{"same", " same"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "DuplicateOptions", decodeBody[errorBody](t, resp).Kind)
	})

	t.Run("owner edit replaces options", func(t *testing.T) {
		resp := app.request(t, http.MethodPut, path, alice, map[string]any{"question": "Favourite color?", "options": []string{"Cyan", "Magenta"}})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = app.request(t, http.MethodGet, path, "", nil)
		got := decodeBody[domain.Poll](t, resp)
		assert.Equal(t, "Favourite color?", got.Question)
		assert.Equal(t, []string{"Cyan", "Magenta"}, got.Options)
		assert.Equal(t, aliceID, got.UserID)
	})

	t.Run("my polls", func(t *testing.T) {
		resp := app.request(t, http.MethodGet, "/api/polls/mine", alice, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, decodeBody[[]domain.Poll](t, resp), 1)

		resp = app.request(t, http.MethodGet, "/api/polls/mine", bob, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, decodeBody[[]domain.Poll](t, resp))
	})

	t.Run("owner delete", func(t *testing.T) {
		resp := app.request(t, http.MethodDelete, path, alice, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = app.request(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp = app.request(t, http.MethodDelete, path, alice, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestCreatePoll_Rejected(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.createUserAndToken(t)

	resp := app.request(t, http.MethodPost, "/api/polls", "", map[string]any{"question": "Q", "options": []string{"a", "b"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/api/polls", token, map[string]any{"question": "Q", "options": []string{"a", " "}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "TooFewValidOptions", decodeBody[errorBody](t, resp).Kind)

	resp = app.request(t, http.MethodGet, "/api/polls/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListPolls_OrderedBySummarizedVotes(t *testing.T) {
	app := setupTestApp(t)
	_, owner := app.createUserAndToken(t)

	var polls []domain.Poll
	for i := range 3 {
		polls = append(polls, app.createPoll(t, owner, fmt.Sprintf("Question %d", i), "a", "b"))
	}

	// the oldest poll gets the votes
	popular := polls[0]
	for range 2 {
		_, voter := app.createUserAndToken(t)
		resp := app.request(t, http.MethodPost, "/api/polls/"+popular.ID.String()+"/votes", voter, map[string]int{"option_index": 0})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := app.request(t, http.MethodGet, "/api/polls", "", nil)
	listed := decodeBody[[]domain.Poll](t, resp)
	require.Len(t, listed, 3)
	assert.Equal(t, polls[2].ID, listed[0].ID, "newest first before summarizing")

	require.NoError(t, app.SummarySvc.SummarizeAllVotes(context.Background()))

	resp = app.request(t, http.MethodGet, "/api/polls", "", nil)
	listed = decodeBody[[]domain.Poll](t, resp)
	require.Len(t, listed, 3)
	assert.Equal(t, popular.ID, listed[0].ID)

	resp = app.request(t, http.MethodGet, "/api/polls?q=question%202", "", nil)
	found := decodeBody[[]domain.Poll](t, resp)
	require.Len(t, found, 1)
	assert.Equal(t, polls[2].ID, found[0].ID)

	resp = app.request(t, http.MethodGet, "/api/polls?q=%25", "", nil)
	assert.Empty(t, decodeBody[[]domain.Poll](t, resp))
}
