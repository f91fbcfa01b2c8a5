package domain

import (
	"context"
	"time"
)

// Roster collection states for a GroupPass.
const (
	RosterStatusDraft      = "draft"
	RosterStatusCollecting = "collecting"
	RosterStatusLocked     = "locked"
)

// Group states.
const (
	GroupStatusPendingInfo = "pending_info"
)

// GroupPass is one reservation group tied to one slot and one leader parent.
// Once RosterStatus is locked, no member or child mutation under the group may
// succeed.
// swagger:model GroupPass
type GroupPass struct {
	ID                string    `json:"id"`
	SlotID            string    `json:"slot_id"`
	LeaderParentID    string    `json:"leader_parent_id"`
	Status            string    `json:"status"`
	RosterStatus      string    `json:"roster_status"`
	HeadcountDeclared *int      `json:"headcount_declared,omitempty"`
	HeadcountFinal    *int      `json:"headcount_final,omitempty"`
	Memo              *string   `json:"memo,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Locked reports whether the roster refuses further mutation.
func (g *GroupPass) Locked() bool {
	return g.RosterStatus == RosterStatusLocked
}

// GroupPassRepository defines storage operations for group passes.
type GroupPassRepository interface {
	Create(ctx context.Context, group *GroupPass) error
	// GetByID returns nil when no group with the given id exists.
	GetByID(ctx context.Context, id string) (*GroupPass, error)
	// MarkCollecting flips roster_status from draft to collecting. It is a
	// no-op (zero affected rows) when the group is already past draft.
	MarkCollecting(ctx context.Context, groupID string) (int64, error)
	// Lock sets roster_status to locked and stamps headcount_final. Returns
	// the number of affected rows; zero means the group was already locked or
	// does not exist.
	Lock(ctx context.Context, groupID string, headcountFinal int) (int64, error)
}
