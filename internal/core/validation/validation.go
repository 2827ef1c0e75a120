// Package validation sanitizes and checks poll input before it reaches
// a store.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

const (
	MaxQuestionLength = 500
	MaxOptionLength   = 200
	MinOptions        = 2
	MaxOptions        = 10
)

// PollInput is a question and option list that passed every rule.
type PollInput struct {
	Question string
	Options  []string
}

// ValidatePollInput cleans the question and options, drops empty or
// oversized options and checks the remaining set. The first failing rule
// is returned as a *domain.ValidationError.
func ValidatePollInput(question string, options []string) (PollInput, error) {
	q := clean(question)
	if q == "" {
		return PollInput{}, &domain.ValidationError{Kind: domain.EmptyQuestion}
	}
	if utf8.RuneCountInString(q) > MaxQuestionLength {
		return PollInput{}, &domain.ValidationError{Kind: domain.QuestionTooLong}
	}
	if len(options) < MinOptions {
		return PollInput{}, &domain.ValidationError{Kind: domain.TooFewOptions}
	}
	if len(options) > MaxOptions {
		return PollInput{}, &domain.ValidationError{Kind: domain.TooManyOptions}
	}

	kept := make([]string, 0, len(options))
	for _, opt := range options {
		opt = clean(opt)
		if opt == "" || utf8.RuneCountInString(opt) > MaxOptionLength {
			continue
		}
		kept = append(kept, opt)
	}
	if len(kept) < MinOptions {
		return PollInput{}, &domain.ValidationError{Kind: domain.TooFewValidOptions}
	}

	seen := make(map[string]struct{}, len(kept))
	for _, opt := range kept {
		if _, dup := seen[opt]; dup {
			return PollInput{}, &domain.ValidationError{Kind: domain.DuplicateOptions}
		}
		seen[opt] = struct{}{}
	}

	return PollInput{Question: q, Options: kept}, nil
}

// clean drops NUL characters and invalid UTF-8, neither of which a
// postgres TEXT column accepts, then trims surrounding whitespace.
func clean(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}
