package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PollSummary is a materialized vote count for one option, refreshed by
// the summarization job.
type PollSummary struct {
	PollID        uuid.UUID
	OptionIndex   int
	VoteCount     int64
	LastUpdatedAt time.Time
}

type OptionResult struct {
	Index      int     `json:"index"`
	Text       string  `json:"text"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

type PollResults struct {
	PollID     uuid.UUID      `json:"poll_id"`
	Question   string         `json:"question"`
	Options    []OptionResult `json:"options"`
	TotalVotes int64          `json:"total_votes"`
}
