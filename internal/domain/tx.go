package domain

import "context"

// Repositories bundles the transaction-scoped repositories handed to a
// transactional body. Every repository in one bundle is bound to the same
// transaction.
type Repositories struct {
	Parents ParentRepository
	Slots   ReservationSlotRepository
	Groups  GroupPassRepository
	Invites InviteLinkRepository
	Members GroupMemberRepository
}

// TxRunner executes a body inside one serializable transaction. The body's
// reads and conditional writes all observe a consistent snapshot; the
// datastore aborts one of two conflicting transactions with a serialization
// failure, which callers handle through the retry policy.
type TxRunner interface {
	Serializable(ctx context.Context, fn func(r Repositories) error) error
}
