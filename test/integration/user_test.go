package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

func TestMe(t *testing.T) {
	app := setupTestApp(t)
	userID, token := app.createUserAndToken(t)

	resp := app.request(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody[domain.User](t, resp)
	assert.Equal(t, userID, me.ID)
	assert.Empty(t, me.Roles)

	resp = app.request(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminModeration(t *testing.T) {
	app := setupTestApp(t)
	_, owner := app.createUserAndToken(t)
	_, plain := app.createUserAndToken(t)
	adminID, admin := app.createUserAndToken(t, domain.RoleAdmin)

	poll := app.createPoll(t, owner, "Spam?", "yes", "no")

	resp := app.request(t, http.MethodGet, "/api/admin/polls", plain, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = app.request(t, http.MethodDelete, "/api/admin/polls/"+poll.ID.String(), plain, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/api/admin/polls", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]domain.Poll](t, resp), 1)

	resp = app.request(t, http.MethodPut, "/api/polls/"+poll.ID.String(), admin, map[string]any{"question": "Edited", "options": []string{"a", "b"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = app.request(t, http.MethodDelete, "/api/admin/polls/"+poll.ID.String(), admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/api/polls/"+poll.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// revocation applies to the next request with the same token
	_, err := app.DB.Exec("DELETE FROM user_roles WHERE user_id = $1", adminID)
	require.NoError(t, err)
	resp = app.request(t, http.MethodGet, "/api/admin/polls", admin, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
