package services

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"grouppass/internal/domain"
)

// MaxSerializableRetries bounds transparent retries of an aborted serializable
// transaction: 2 retries, 3 attempts total.
const MaxSerializableRetries = 2

// serializationFailure is the Postgres error code raised when the database
// aborts one of two transactions it cannot place consistently in the commit
// order.
const serializationFailure = pq.ErrorCode("40001")

// IsSerializationConflict reports whether err is a serialization abort from
// the datastore.
func IsSerializationConflict(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == serializationFailure
}

// ShouldRetrySerializable reports whether an attempt that failed with err may
// be retried.
func ShouldRetrySerializable(err error, attempt, maxRetries int) bool {
	return IsSerializationConflict(err) && attempt < maxRetries
}

// RunSerializable executes fn in one serializable transaction per attempt,
// retrying serialization aborts up to MaxSerializableRetries times. Business
// errors propagate unchanged; exhausting the budget surfaces as a 503. fn must
// be safe to re-execute from scratch.
func RunSerializable(ctx context.Context, runner domain.TxRunner, fn func(r domain.Repositories) error) error {
	for attempt := 0; ; attempt++ {
		err := runner.Serializable(ctx, fn)
		if err == nil {
			return nil
		}
		if ShouldRetrySerializable(err, attempt, MaxSerializableRetries) {
			continue
		}
		if !IsSerializationConflict(err) {
			return err
		}
		return domain.ErrRetryExhausted()
	}
}
