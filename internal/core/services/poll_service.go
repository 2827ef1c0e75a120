package services

import (
	"context"
	"math"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/policy"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
	"github.com/vncsmyrnk/pollhub/internal/core/validation"
)

const pollsPerPage = 10

// maxPage keeps the computed offset from overflowing.
const maxPage = math.MaxInt/pollsPerPage + 1

type pollService struct {
	repo ports.PollRepository
}

func NewPollService(repo ports.PollRepository) ports.PollService {
	return &pollService{
		repo: repo,
	}
}

func (s *pollService) Create(ctx context.Context, identity *domain.User, input ports.CreatePollInput) (*domain.Poll, error) {
	if !policy.CanCreatePoll(identity) {
		return nil, domain.ErrUnauthenticated
	}

	clean, err := validation.ValidatePollInput(input.Question, input.Options)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	poll := &domain.Poll{
		ID:        uuid.New(),
		UserID:    identity.ID,
		Question:  clean.Question,
		Options:   clean.Options,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, storeErr("save poll", err)
	}

	slog.Info("poll created", "poll_id", poll.ID, "user_id", identity.ID)
	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}

	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, storeErr("get poll", err)
	}
	return poll, nil
}

func (s *pollService) ListPolls(ctx context.Context, input ports.ListPollsInput) ([]*domain.Poll, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		return []*domain.Poll{}, nil
	}
	offset := (page - 1) * pollsPerPage

	var (
		polls []*domain.Poll
		err   error
	)
	if input.Query != "" {
		polls, err = s.repo.Search(ctx, pollsPerPage, offset, input.Query)
	} else {
		polls, err = s.repo.List(ctx, pollsPerPage, offset)
	}
	if err != nil {
		return nil, storeErr("list polls", err)
	}
	return polls, nil
}

func (s *pollService) ListMyPolls(ctx context.Context, identity *domain.User) ([]*domain.Poll, error) {
	if !policy.Authenticated(identity) {
		return nil, domain.ErrUnauthenticated
	}

	polls, err := s.repo.ListByOwner(ctx, identity.ID)
	if err != nil {
		return nil, storeErr("list own polls", err)
	}
	return polls, nil
}

// Update replaces question and options of a poll owned by identity. The
// ownership check runs twice: once here against the fetched poll and once
// in the store as a filter on the write.
func (s *pollService) Update(ctx context.Context, identity *domain.User, input ports.UpdatePollInput) (*domain.Poll, error) {
	if !policy.Authenticated(identity) {
		return nil, domain.ErrUnauthenticated
	}

	poll, err := s.repo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, storeErr("get poll", err)
	}
	if !policy.CanUpdatePoll(identity, poll) {
		return nil, domain.ErrForbidden
	}

	clean, err := validation.ValidatePollInput(input.Question, input.Options)
	if err != nil {
		return nil, err
	}

	updated := *poll
	updated.Question = clean.Question
	updated.Options = clean.Options
	updated.UpdatedAt = time.Now().UTC()

	n, err := s.repo.UpdateOwned(ctx, &updated, identity.ID)
	if err != nil {
		return nil, storeErr("update poll", err)
	}
	if n == 0 {
		// deleted or reassigned after the fetch
		return nil, domain.ErrForbidden
	}

	slog.Info("poll updated", "poll_id", updated.ID, "user_id", identity.ID)
	return &updated, nil
}

func (s *pollService) Delete(ctx context.Context, identity *domain.User, pollID uuid.UUID) error {
	if !policy.Authenticated(identity) {
		return domain.ErrUnauthenticated
	}

	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return storeErr("get poll", err)
	}
	if !policy.CanDeletePoll(identity, poll) {
		return domain.ErrForbidden
	}

	n, err := s.repo.DeleteOwned(ctx, pollID, identity.ID)
	if err != nil {
		return storeErr("delete poll", err)
	}
	if n == 0 {
		return domain.ErrForbidden
	}

	slog.Info("poll deleted", "poll_id", pollID, "user_id", identity.ID)
	return nil
}

func (s *pollService) AdminListPolls(ctx context.Context, identity *domain.User) ([]*domain.Poll, error) {
	if !policy.CanAdminList(identity) {
		return nil, domain.ErrForbidden
	}

	polls, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, storeErr("list all polls", err)
	}
	return polls, nil
}

func (s *pollService) AdminDeletePoll(ctx context.Context, identity *domain.User, pollID uuid.UUID) error {
	if !policy.CanAdminDelete(identity) {
		return domain.ErrForbidden
	}

	n, err := s.repo.Delete(ctx, pollID)
	if err != nil {
		return storeErr("delete poll", err)
	}
	if n == 0 {
		return domain.ErrPollNotFound
	}

	slog.Warn("poll removed by admin", "poll_id", pollID, "admin_id", identity.ID)
	return nil
}
