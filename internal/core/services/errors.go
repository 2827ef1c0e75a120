package services

import (
	"errors"

	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

var passthrough = []error{
	domain.ErrPollNotFound,
	domain.ErrAlreadyVoted,
	domain.ErrVoteNotFound,
}

// storeErr keeps domain errors reported by a repository and wraps
// everything else in a StoreError.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range passthrough {
		if errors.Is(err, target) {
			return target
		}
	}
	return &domain.StoreError{Op: op, Err: err}
}
