package domain

import (
	"context"
	"time"
)

// Roster entry states.
const (
	MemberStatusPending   = "pending"
	MemberStatusCompleted = "completed"
	MemberStatusRemoved   = "removed"
)

// Child is a student record, owned exclusively by one GroupMember.
// swagger:model Child
type Child struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Grade         *string   `json:"grade,omitempty"`
	AttendedTrial bool      `json:"attended_trial"`
	AttendedGroup bool      `json:"attended_group"`
	AttendedSolo  bool      `json:"attended_solo"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GroupMember is one roster entry linking a Child to a GroupPass. EditToken is
// the per-member capability for later self-service edits.
// swagger:model GroupMember
type GroupMember struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	ChildID     string    `json:"child_id"`
	ParentName  string    `json:"parent_name"`
	ParentPhone *string   `json:"parent_phone,omitempty"`
	Note        *string   `json:"note,omitempty"`
	EditToken   string    `json:"-"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Child *Child `json:"child,omitempty"`
}

// ChildUpdate carries the optional fields of a partial child update. Nil means
// the field is absent from the request and keeps its stored value.
type ChildUpdate struct {
	Name          *string
	Grade         *string
	AttendedTrial *bool
	AttendedGroup *bool
	AttendedSolo  *bool
}

// MemberUpdate carries the optional fields of a partial member update.
// ParentPhone distinguishes absent (nil) from explicit clear (SetNull).
type MemberUpdate struct {
	ParentName *string
	Note       *string
	// ParentPhone is written only when Set; a Set update with Value nil
	// clears the column.
	ParentPhone NullableString
}

// NullableString is a tri-state string field: absent, set-to-value, or
// set-to-null.
type NullableString struct {
	Set   bool
	Value *string
}

// GroupMemberRepository defines storage operations for roster entries and
// their children.
type GroupMemberRepository interface {
	CreateChild(ctx context.Context, child *Child) error
	Create(ctx context.Context, member *GroupMember) error
	// GetByEditToken returns the member together with its Child, or nil when
	// the token is unknown.
	GetByEditToken(ctx context.Context, editToken string) (*GroupMember, error)
	// ListActiveByGroupAndPhone returns non-removed members for the given
	// normalized phone, oldest first. Used for resubmission detection.
	ListActiveByGroupAndPhone(ctx context.Context, groupID, phone string) ([]*GroupMember, error)
	ListActiveByGroup(ctx context.Context, groupID string) ([]*GroupMember, error)
	CountActiveByGroup(ctx context.Context, groupID string) (int, error)
	// UpdateGuarded applies a partial update to the member row, filtered on
	// the owning group's roster not being locked. Zero affected rows is the
	// authoritative lock signal.
	UpdateGuarded(ctx context.Context, memberID string, upd MemberUpdate) (int64, error)
	UpdateChild(ctx context.Context, childID string, upd ChildUpdate) error
	// MarkRemovedGuarded soft-deletes the member, filtered on the owning
	// group's roster not being locked.
	MarkRemovedGuarded(ctx context.Context, memberID string) (int64, error)
}
