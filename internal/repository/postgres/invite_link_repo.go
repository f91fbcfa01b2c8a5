package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"grouppass/internal/domain"
)

type inviteLinkRepository struct {
	DB DBTX
}

// NewInviteLinkRepository returns a domain.InviteLinkRepository implemented with Postgres.
func NewInviteLinkRepository(db DBTX) domain.InviteLinkRepository {
	return &inviteLinkRepository{DB: db}
}

const inviteColumns = `id, group_id, token, purpose, max_uses, used_count, used_at, used_by, expires_at, created_at, updated_at`

func (r *inviteLinkRepository) Create(ctx context.Context, link *domain.InviteLink) error {
	query := `
		INSERT INTO invite_links (group_id, token, purpose, max_uses, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, used_count, created_at, updated_at
	`
	var maxUses sql.NullInt64
	if n, ok := link.MaxUses.Value(); ok {
		maxUses = sql.NullInt64{Int64: int64(n), Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		link.GroupID, link.Token, link.Purpose, maxUses, link.ExpiresAt,
	).Scan(&link.ID, &link.UsedCount, &link.CreatedAt, &link.UpdatedAt)
}

func (r *inviteLinkRepository) GetByToken(ctx context.Context, token string) (*domain.InviteLink, error) {
	query := `SELECT ` + inviteColumns + ` FROM invite_links WHERE token = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, token))
}

func (r *inviteLinkRepository) FindValidShared(ctx context.Context, groupID, purpose string, now time.Time) (*domain.InviteLink, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM invite_links
		WHERE group_id = $1
		  AND purpose = $2
		  AND (expires_at IS NULL OR expires_at > $3)
		  AND (max_uses IS NULL OR used_count < max_uses)
		ORDER BY created_at
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, groupID, purpose, now))
}

// Claim is the single conditional update at the heart of the token state
// machine: the remaining-uses and expiry checks live in the WHERE clause, and
// the affected-row count decides whether the claim held at commit time.
func (r *inviteLinkRepository) Claim(ctx context.Context, token string, usedBy string, now time.Time) (int64, error) {
	query := `
		UPDATE invite_links
		SET used_count = used_count + 1, used_at = $2, used_by = $3, updated_at = NOW()
		WHERE token = $1
		  AND (max_uses IS NULL OR used_count < max_uses)
		  AND (expires_at IS NULL OR expires_at > $2)
	`
	result, err := r.DB.ExecContext(ctx, query, token, now, usedBy)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *inviteLinkRepository) scanOne(row *sql.Row) (*domain.InviteLink, error) {
	l := &domain.InviteLink{}
	var maxUses sql.NullInt64
	var usedAt, expiresAt sql.NullTime
	var usedBy sql.NullString
	err := row.Scan(
		&l.ID, &l.GroupID, &l.Token, &l.Purpose, &maxUses, &l.UsedCount,
		&usedAt, &usedBy, &expiresAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if maxUses.Valid {
		l.MaxUses = domain.LimitedUses(int(maxUses.Int64))
	} else {
		l.MaxUses = domain.UnlimitedUses()
	}
	if usedAt.Valid {
		l.UsedAt = &usedAt.Time
	}
	if usedBy.Valid {
		l.UsedBy = &usedBy.String
	}
	if expiresAt.Valid {
		l.ExpiresAt = &expiresAt.Time
	}
	return l, nil
}
