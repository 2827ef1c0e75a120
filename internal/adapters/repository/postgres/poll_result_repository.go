package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

type pollResultRepository struct {
	db *sql.DB
}

func NewPollResultRepository(db *sql.DB) ports.PollResultRepository {
	return &pollResultRepository{
		db: db,
	}
}

func (r *pollResultRepository) GetSummaries(ctx context.Context, pollID uuid.UUID) ([]domain.PollSummary, error) {
	query := `
		SELECT poll_id, option_index, vote_count, last_updated_at
		FROM poll_results
		WHERE poll_id = $1
		ORDER BY option_index
	`

	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch summaries: %w", err)
	}
	defer rows.Close()

	summaries := []domain.PollSummary{}
	for rows.Next() {
		var s domain.PollSummary
		if err := rows.Scan(&s.PollID, &s.OptionIndex, &s.VoteCount, &s.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summaries: %w", err)
	}

	return summaries, nil
}

func (r *pollResultRepository) SummarizeVotes(ctx context.Context, pollID uuid.UUID) error {
	query := `
		INSERT INTO poll_results (poll_id, option_index, vote_count, last_updated_at)
		SELECT poll_id, option_index, COUNT(*), NOW()
		FROM votes
		WHERE poll_id = $1
		GROUP BY poll_id, option_index
		ON CONFLICT (poll_id, option_index) DO UPDATE
		SET vote_count = EXCLUDED.vote_count,
		    last_updated_at = NOW();
	`

	_, err := r.db.ExecContext(ctx, query, pollID)
	if err != nil {
		return fmt.Errorf("failed to summarize votes for poll %s: %w", pollID, err)
	}

	return nil
}
