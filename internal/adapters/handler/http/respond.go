package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

const msgChangeDenied = "poll not found or you do not have permission to change it"

// maxBodyBytes fits the largest valid poll (a 500 character question and
// ten 200 character options) in 4-byte runes with room for JSON escaping.
const maxBodyBytes = 32 << 10

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads a size-limited JSON body into v. On failure it writes
// the response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorMessage(w, http.StatusRequestEntityTooLarge, "BadRequest", "request body too large")
			return false
		}
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "invalid request body")
		return false
	}
	return true
}

func writeErrorMessage(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

// writeError maps service errors to a status code and a body the client
// may see. Anything not in the domain taxonomy is logged and reported as
// a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *domain.ValidationError
		authErr       *domain.AuthError
	)

	switch {
	case errors.As(err, &validationErr):
		writeErrorMessage(w, http.StatusBadRequest, string(validationErr.Kind), validationErr.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeErrorMessage(w, http.StatusUnauthorized, "Unauthenticated", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeErrorMessage(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrInvalidPollID):
		writeErrorMessage(w, http.StatusBadRequest, "InvalidPollID", err.Error())
	case errors.Is(err, domain.ErrPollNotFound):
		writeErrorMessage(w, http.StatusNotFound, "PollNotFound", err.Error())
	case errors.Is(err, domain.ErrVoteNotFound):
		writeErrorMessage(w, http.StatusNotFound, "VoteNotFound", err.Error())
	case errors.Is(err, domain.ErrAlreadyVoted):
		writeErrorMessage(w, http.StatusConflict, "AlreadyVoted", err.Error())
	case errors.Is(err, domain.ErrInvalidOption):
		writeErrorMessage(w, http.StatusBadRequest, "InvalidOption", err.Error())
	case errors.As(err, &authErr):
		logFailure(r, err)
		writeErrorMessage(w, http.StatusServiceUnavailable, "AuthError", "identity provider unavailable")
	default:
		logFailure(r, err)
		writeErrorMessage(w, http.StatusInternalServerError, "StoreError", domain.ErrInternal.Error())
	}
}

// writeChangeError is writeError for owner-only writes: a missing poll and
// a poll owned by someone else are reported the same way.
func writeChangeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrPollNotFound) || errors.Is(err, domain.ErrForbidden) {
		writeErrorMessage(w, http.StatusForbidden, "Forbidden", msgChangeDenied)
		return
	}
	writeError(w, r, err)
}

func logFailure(r *http.Request, err error) {
	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
}
