package http

import (
	"net/http"

	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

// AdminHandler exposes moderation endpoints. Access is decided by the
// poll service from the caller's roles.
type AdminHandler struct {
	service ports.PollService
}

func NewAdminHandler(service ports.PollService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

func (h *AdminHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.service.AdminListPolls(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, polls)
}

func (h *AdminHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.AdminDeletePoll(r.Context(), IdentityFromContext(r.Context()), pollID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
