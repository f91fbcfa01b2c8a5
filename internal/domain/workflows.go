package domain

import (
	"context"
	"time"
)

// StudentInput is one submitted student in a roster entry.
type StudentInput struct {
	Name          string
	Grade         *string
	AttendedTrial bool
	AttendedGroup bool
	AttendedSolo  bool
}

// CreateBookingInput is the input to the create-booking workflow. Either
// SlotID or the (Instructor, StartAt, EndAt) triple identifies the slot.
type CreateBookingInput struct {
	SlotID     *string
	Instructor string
	StartAt    time.Time
	EndAt      time.Time

	ParentName        string
	ParentPhone       string
	CashReceipt       *string
	HeadcountDeclared *int
	Memo              *string

	// LeaderStudent, when set, creates the leader's own roster entry inline.
	LeaderStudent *StudentInput
	LeaderNote    *string
}

// BookingResult is the outcome of a successful booking creation.
type BookingResult struct {
	GroupID       string  `json:"group_id"`
	SlotID        string  `json:"slot_id"`
	ManageToken   string  `json:"manage_token"`
	ManageURL     string  `json:"manage_url"`
	LeaderEditURL *string `json:"leader_edit_url,omitempty"`
}

// InviteResult is the outcome of create-or-reuse invite.
type InviteResult struct {
	GroupID        string `json:"group_id"`
	CreatedCount   int    `json:"created_count"`
	InviteToken    string `json:"invite_token"`
	InviteURL      string `json:"invite_url"`
	ReusedExisting bool   `json:"reused_existing"`
}

// SubmitRosterInput is the input to the submit-roster-entry workflow.
type SubmitRosterInput struct {
	ParentName  string
	ParentPhone string
	Note        *string
	Students    []StudentInput
}

// SubmitRosterResult is the outcome of a successful roster submission.
type SubmitRosterResult struct {
	GroupID            string   `json:"group_id"`
	GroupMemberIDs     []string `json:"group_member_ids"`
	EditTokens         []string `json:"edit_tokens"`
	EditURLs           []string `json:"edit_urls"`
	CurrentMemberCount int      `json:"current_member_count"`
}

// UpdateMemberInput carries the optional fields of a member self-service
// update. Nil pointers mean the field is absent and keeps its stored value.
type UpdateMemberInput struct {
	ParentName *string
	// ParentPhone distinguishes absent from explicit empty; an explicitly
	// empty phone clears the column.
	ParentPhone NullableString
	Note        *string

	ChildName     *string
	Grade         *string
	AttendedTrial *bool
	AttendedGroup *bool
	AttendedSolo  *bool
}

// GroupOverview is the leader's management view of one group.
type GroupOverview struct {
	Group   *GroupPass       `json:"group"`
	Slot    *ReservationSlot `json:"slot"`
	Members []*GroupMember   `json:"members"`
}

// LockResult is the outcome of locking a roster.
type LockResult struct {
	GroupID        string `json:"group_id"`
	RosterStatus   string `json:"roster_status"`
	HeadcountFinal int    `json:"headcount_final"`
}

// BookingService creates group bookings.
type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*BookingResult, error)
}

// InviteService mints or reuses the shared roster-entry link for a group.
type InviteService interface {
	// CreateOrReuseInvite validates the leader's manage token and returns the
	// group's shared invite link, creating it when none is valid. When email
	// is non-nil the invite URL is mailed to it after the transaction commits.
	CreateOrReuseInvite(ctx context.Context, manageToken string, email *string) (*InviteResult, error)
}

// RosterService handles member-parent roster submissions.
type RosterService interface {
	SubmitRosterEntry(ctx context.Context, inviteToken string, in SubmitRosterInput) (*SubmitRosterResult, error)
}

// MemberService handles per-member self-service edits.
type MemberService interface {
	UpdateMember(ctx context.Context, editToken string, in UpdateMemberInput) (string, error)
}

// GroupService serves the leader's management view and the operator's lock
// action.
type GroupService interface {
	GetOverview(ctx context.Context, manageToken string) (*GroupOverview, error)
	LockRoster(ctx context.Context, groupID string) (*LockResult, error)
}
