package domain

import (
	"context"
	"time"
)

// SlotWindowTolerance is the slack allowed when matching an existing slot by
// (instructor, time window) instead of id.
const SlotWindowTolerance = 30 * time.Second

// ReservationSlot is one class occurrence. Slots are created once per distinct
// schedule slot and reused across group bookings.
// swagger:model ReservationSlot
type ReservationSlot struct {
	ID         string    `json:"id"`
	Instructor string    `json:"instructor"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReservationSlotRepository defines storage operations for slots.
type ReservationSlotRepository interface {
	GetByID(ctx context.Context, id string) (*ReservationSlot, error)
	// FindByInstructorWindow returns the slot whose start and end fall within
	// SlotWindowTolerance of the given times, or nil when no such slot exists.
	FindByInstructorWindow(ctx context.Context, instructor string, startAt, endAt time.Time) (*ReservationSlot, error)
	Create(ctx context.Context, slot *ReservationSlot) error
}
