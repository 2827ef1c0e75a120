package http

import (
	"net/http"

	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	user, err := h.service.GetByID(r.Context(), identity.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	user.Roles = identity.Roles

	writeJSON(w, http.StatusOK, user)
}
