package postgres

import (
	"context"
	"database/sql"
	"errors"

	"grouppass/internal/domain"
)

type groupPassRepository struct {
	DB DBTX
}

// NewGroupPassRepository returns a domain.GroupPassRepository implemented with Postgres.
func NewGroupPassRepository(db DBTX) domain.GroupPassRepository {
	return &groupPassRepository{DB: db}
}

func (r *groupPassRepository) Create(ctx context.Context, group *domain.GroupPass) error {
	query := `
		INSERT INTO group_passes (slot_id, leader_parent_id, status, roster_status, headcount_declared, memo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		group.SlotID, group.LeaderParentID, group.Status, group.RosterStatus,
		group.HeadcountDeclared, group.Memo,
	).Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
}

func (r *groupPassRepository) GetByID(ctx context.Context, id string) (*domain.GroupPass, error) {
	query := `
		SELECT id, slot_id, leader_parent_id, status, roster_status,
		       headcount_declared, headcount_final, memo, created_at, updated_at
		FROM group_passes
		WHERE id = $1
	`
	g := &domain.GroupPass{}
	var declared, final sql.NullInt64
	var memo sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.SlotID, &g.LeaderParentID, &g.Status, &g.RosterStatus,
		&declared, &final, &memo, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if declared.Valid {
		v := int(declared.Int64)
		g.HeadcountDeclared = &v
	}
	if final.Valid {
		v := int(final.Int64)
		g.HeadcountFinal = &v
	}
	if memo.Valid {
		g.Memo = &memo.String
	}
	return g, nil
}

func (r *groupPassRepository) MarkCollecting(ctx context.Context, groupID string) (int64, error) {
	query := `
		UPDATE group_passes
		SET roster_status = $2, updated_at = NOW()
		WHERE id = $1 AND roster_status = $3
	`
	result, err := r.DB.ExecContext(ctx, query, groupID, domain.RosterStatusCollecting, domain.RosterStatusDraft)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *groupPassRepository) Lock(ctx context.Context, groupID string, headcountFinal int) (int64, error) {
	query := `
		UPDATE group_passes
		SET roster_status = $2, headcount_final = $3, updated_at = NOW()
		WHERE id = $1 AND roster_status <> $2
	`
	result, err := r.DB.ExecContext(ctx, query, groupID, domain.RosterStatusLocked, headcountFinal)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
