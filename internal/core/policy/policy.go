// Package policy holds the capability checks that gate every poll and
// vote operation. Every check denies when the identity is missing or
// incomplete.
package policy

import (
	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollhub/internal/core/domain"
)

// Authenticated reports whether u is a complete identity.
func Authenticated(u *domain.User) bool {
	return u != nil && u.ID != uuid.Nil
}

func owns(u *domain.User, p *domain.Poll) bool {
	return Authenticated(u) && p != nil && p.UserID != uuid.Nil && u.ID == p.UserID
}

func CanCreatePoll(u *domain.User) bool { return Authenticated(u) }

// CanReadPoll always allows: poll content is public.
func CanReadPoll(_ *domain.User, _ *domain.Poll) bool { return true }

func CanUpdatePoll(u *domain.User, p *domain.Poll) bool { return owns(u, p) }

func CanDeletePoll(u *domain.User, p *domain.Poll) bool { return owns(u, p) }

func CanVote(u *domain.User) bool { return Authenticated(u) }

// IsAdmin reports whether u carries the admin role granted by the
// identity provider.
func IsAdmin(u *domain.User) bool {
	return Authenticated(u) && u.HasRole(domain.RoleAdmin)
}

func CanAdminList(u *domain.User) bool { return IsAdmin(u) }

func CanAdminDelete(u *domain.User) bool { return IsAdmin(u) }
