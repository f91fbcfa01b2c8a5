package domain

import (
	"context"
	"time"
)

// Parent is a guardian identified by normalized phone (digits only, unique).
// swagger:model Parent
type Parent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	CashReceipt *string   `json:"cash_receipt,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ParentRepository defines storage operations for parents. All operations run
// inside the transaction the repository instance is bound to.
type ParentRepository interface {
	// UpsertByPhone creates the parent or, when the phone is already known,
	// updates name and cash receipt in place.
	UpsertByPhone(ctx context.Context, name, phone string, cashReceipt *string) (*Parent, error)
	// GetByID returns nil when no parent with the given id exists.
	GetByID(ctx context.Context, id string) (*Parent, error)
}
