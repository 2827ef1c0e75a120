package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

// selectPolls loads polls with their options ordered by position.
const selectPolls = `
	SELECT p.id, p.user_id, p.question, p.created_at, p.updated_at, COALESCE(o.options, '{}')
	FROM polls p
	LEFT JOIN LATERAL (
		SELECT array_agg(text ORDER BY position) AS options
		FROM poll_options
		WHERE poll_id = p.id
	) o ON TRUE
`

const joinVoteTotals = `
	LEFT JOIN LATERAL (
		SELECT COALESCE(SUM(vote_count), 0) AS total
		FROM poll_results
		WHERE poll_id = p.id
	) r ON TRUE
`

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, user_id, question, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, queryPoll, poll.ID, poll.UserID, poll.Question, poll.CreatedAt, poll.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	if err := insertOptions(ctx, tx, poll.ID, poll.Options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := selectPolls + `WHERE p.id = $1`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&poll.ID, &poll.UserID, &poll.Question, &poll.CreatedAt, &poll.UpdatedAt, pq.Array(&poll.Options),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	return &poll, nil
}

func (r *pollRepository) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	query := selectPolls + `ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(rows)
}

func (r *pollRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Poll, error) {
	query := selectPolls + `WHERE p.user_id = $1 ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls by owner: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(rows)
}

func (r *pollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	query := selectPolls + joinVoteTotals + `
		ORDER BY r.total DESC, p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(rows)
}

func (r *pollRepository) Search(ctx context.Context, limit, offset int, q string) ([]*domain.Poll, error) {
	query := selectPolls + joinVoteTotals + `
		WHERE p.question ILIKE $1
		ORDER BY r.total DESC, p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, "%"+escapeLike(q)+"%", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(rows)
}

func (r *pollRepository) UpdateOwned(ctx context.Context, poll *domain.Poll, ownerID uuid.UUID) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE polls SET question = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`, poll.Question, poll.UpdatedAt, poll.ID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to update poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return 0, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_options WHERE poll_id = $1`, poll.ID); err != nil {
		return 0, fmt.Errorf("failed to clear options: %w", err)
	}
	if err := insertOptions(ctx, tx, poll.ID, poll.Options); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return n, nil
}

func (r *pollRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete poll: %w", err)
	}
	return res.RowsAffected()
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete poll: %w", err)
	}
	return res.RowsAffected()
}

func (r *pollRepository) scanPolls(rows *sql.Rows) ([]*domain.Poll, error) {
	polls := []*domain.Poll{}
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(&poll.ID, &poll.UserID, &poll.Question, &poll.CreatedAt, &poll.UpdatedAt, pq.Array(&poll.Options)); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}

func insertOptions(ctx context.Context, tx *sql.Tx, pollID uuid.UUID, options []string) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO poll_options (poll_id, position, text)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for i, text := range options {
		if _, err := stmt.ExecContext(ctx, pollID, i, text); err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}
