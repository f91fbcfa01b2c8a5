package domain

import (
	"context"
	"time"
)

// Invite token purposes.
const (
	PurposeLeaderOnly  = "leader_only"
	PurposeRosterEntry = "roster_entry"
)

// UseLimit is the maximum number of claims an InviteLink allows, either a
// concrete count or unlimited. It replaces the maxint-style sentinel the
// original data model used for shared links.
type UseLimit struct {
	limited bool
	n       int
}

// UnlimitedUses returns the limit for shared links that may be claimed any
// number of times.
func UnlimitedUses() UseLimit {
	return UseLimit{}
}

// LimitedUses returns a limit of n claims.
func LimitedUses(n int) UseLimit {
	return UseLimit{limited: true, n: n}
}

// Unlimited reports whether the limit allows any number of claims.
func (u UseLimit) Unlimited() bool {
	return !u.limited
}

// Value returns the concrete limit; ok is false for unlimited.
func (u UseLimit) Value() (n int, ok bool) {
	return u.n, u.limited
}

// Allows reports whether one more claim is permitted after used claims.
func (u UseLimit) Allows(used int) bool {
	return !u.limited || used < u.n
}

// InviteLink is a capability token owned by a GroupPass. Exhausted and expired
// links are never deleted; they remain as an audit trail.
// swagger:model InviteLink
type InviteLink struct {
	ID        string     `json:"id"`
	GroupID   string     `json:"group_id"`
	Token     string     `json:"-"`
	Purpose   string     `json:"purpose"`
	MaxUses   UseLimit   `json:"-"`
	UsedCount int        `json:"used_count"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	UsedBy    *string    `json:"used_by,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Expired reports whether the link is past its expiry at the given instant.
func (l *InviteLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

// InviteLinkRepository defines storage operations for invite links.
type InviteLinkRepository interface {
	Create(ctx context.Context, link *InviteLink) error
	// GetByToken returns nil when the token is unknown.
	GetByToken(ctx context.Context, token string) (*InviteLink, error)
	// FindValidShared returns an existing non-expired, non-exhausted link of
	// the given purpose under the group, or nil. Used for idempotent shared
	// link creation.
	FindValidShared(ctx context.Context, groupID, purpose string, now time.Time) (*InviteLink, error)
	// Claim atomically increments used_count and stamps used_at/used_by, with
	// the remaining-uses and expiry checks folded into the update's filter.
	// The affected-row count is the sole source of truth for whether the
	// claim held at commit time.
	Claim(ctx context.Context, token string, usedBy string, now time.Time) (int64, error)
}
