// Package memory keeps polls, votes and accounts in process memory. It
// enforces the same constraints as the postgres schema and backs the
// server's dev mode and the unit tests.
package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

type voteKey struct {
	pollID uuid.UUID
	userID uuid.UUID
}

type Store struct {
	mu sync.Mutex

	polls     map[uuid.UUID]*domain.Poll
	votes     map[voteKey]*domain.Vote
	summaries map[uuid.UUID]map[int]domain.PollSummary

	users         map[uuid.UUID]*domain.User
	roles         map[uuid.UUID]map[domain.Role]struct{}
	refreshTokens map[string]*domain.RefreshToken
}

func NewStore() *Store {
	return &Store{
		polls:         make(map[uuid.UUID]*domain.Poll),
		votes:         make(map[voteKey]*domain.Vote),
		summaries:     make(map[uuid.UUID]map[int]domain.PollSummary),
		users:         make(map[uuid.UUID]*domain.User),
		roles:         make(map[uuid.UUID]map[domain.Role]struct{}),
		refreshTokens: make(map[string]*domain.RefreshToken),
	}
}

func (s *Store) Polls() *PollRepository { return &PollRepository{s: s} }

func (s *Store) Votes() *VoteRepository { return &VoteRepository{s: s} }

func (s *Store) Results() *PollResultRepository { return &PollResultRepository{s: s} }

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Roles() *RoleRepository { return &RoleRepository{s: s} }

func (s *Store) Auth() *AuthRepository { return &AuthRepository{s: s} }

func copyPoll(p *domain.Poll) *domain.Poll {
	c := *p
	c.Options = append([]string(nil), p.Options...)
	return &c
}

// deletePollLocked removes a poll with its votes and summaries, mirroring
// ON DELETE CASCADE.
func (s *Store) deletePollLocked(id uuid.UUID) {
	delete(s.polls, id)
	delete(s.summaries, id)
	for k := range s.votes {
		if k.pollID == id {
			delete(s.votes, k)
		}
	}
}
