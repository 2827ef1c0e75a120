package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
	ErrPollNotFound    = errors.New("poll not found")
	ErrInvalidPollID   = errors.New("invalid poll id")
	ErrInvalidOption   = errors.New("invalid option for this poll")
	ErrAlreadyVoted    = errors.New("user has already voted")
	ErrVoteNotFound    = errors.New("user did not vote on this poll")
	ErrValidation      = errors.New("invalid poll input")
	ErrInternal        = errors.New("internal server error")
)

type ValidationKind string

const (
	EmptyQuestion      ValidationKind = "EmptyQuestion"
	QuestionTooLong    ValidationKind = "QuestionTooLong"
	TooFewOptions      ValidationKind = "TooFewOptions"
	TooManyOptions     ValidationKind = "TooManyOptions"
	TooFewValidOptions ValidationKind = "TooFewValidOptions"
	DuplicateOptions   ValidationKind = "DuplicateOptions"
)

var validationMessages = map[ValidationKind]string{
	EmptyQuestion:      "question is required",
	QuestionTooLong:    "question must be at most 500 characters",
	TooFewOptions:      "at least two options are required",
	TooManyOptions:     "at most ten options are allowed",
	TooFewValidOptions: "at least two valid options are required",
	DuplicateOptions:   "options must be unique",
}

// ValidationError reports the first poll input rule that failed.
type ValidationError struct {
	Kind ValidationKind
}

func (e *ValidationError) Error() string {
	if msg, ok := validationMessages[e.Kind]; ok {
		return msg
	}
	return string(e.Kind)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreError wraps a failure returned by a repository. Its message is
// safe to log but not to show to users.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// AuthError wraps a transport failure of the identity provider.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("identity provider: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }
