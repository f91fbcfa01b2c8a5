package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"grouppass/internal/domain"
)

type txRunner struct {
	DB *sql.DB
}

// NewTxRunner returns a domain.TxRunner that executes bodies inside one
// Postgres transaction at serializable isolation.
func NewTxRunner(db *sql.DB) domain.TxRunner {
	return &txRunner{DB: db}
}

// NewRepositories binds the full repository bundle to q.
func NewRepositories(q DBTX) domain.Repositories {
	return domain.Repositories{
		Parents: NewParentRepository(q),
		Slots:   NewReservationSlotRepository(q),
		Groups:  NewGroupPassRepository(q),
		Invites: NewInviteLinkRepository(q),
		Members: NewGroupMemberRepository(q),
	}
}

func (t *txRunner) Serializable(ctx context.Context, fn func(r domain.Repositories) error) error {
	tx, err := t.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(NewRepositories(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	// A serialization conflict can surface at commit; wrap with %w so the
	// retry policy can still unwrap the pq error.
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
