package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"grouppass/internal/domain"
)

type groupMemberRepository struct {
	DB DBTX
}

// NewGroupMemberRepository returns a domain.GroupMemberRepository implemented with Postgres.
func NewGroupMemberRepository(db DBTX) domain.GroupMemberRepository {
	return &groupMemberRepository{DB: db}
}

func (r *groupMemberRepository) CreateChild(ctx context.Context, child *domain.Child) error {
	query := `
		INSERT INTO children (name, grade, attended_trial, attended_group, attended_solo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		child.Name, child.Grade, child.AttendedTrial, child.AttendedGroup, child.AttendedSolo,
	).Scan(&child.ID, &child.CreatedAt, &child.UpdatedAt)
}

func (r *groupMemberRepository) Create(ctx context.Context, member *domain.GroupMember) error {
	query := `
		INSERT INTO group_members (group_id, child_id, parent_name, parent_phone, note, edit_token, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		member.GroupID, member.ChildID, member.ParentName, member.ParentPhone,
		member.Note, member.EditToken, member.Status,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

const memberSelect = `
	SELECT m.id, m.group_id, m.child_id, m.parent_name, m.parent_phone, m.note,
	       m.edit_token, m.status, m.created_at, m.updated_at,
	       c.id, c.name, c.grade, c.attended_trial, c.attended_group, c.attended_solo,
	       c.created_at, c.updated_at
	FROM group_members m
	JOIN children c ON c.id = m.child_id
`

func (r *groupMemberRepository) GetByEditToken(ctx context.Context, editToken string) (*domain.GroupMember, error) {
	query := memberSelect + ` WHERE m.edit_token = $1`
	m, err := scanMember(r.DB.QueryRowContext(ctx, query, editToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *groupMemberRepository) ListActiveByGroupAndPhone(ctx context.Context, groupID, phone string) ([]*domain.GroupMember, error) {
	query := memberSelect + `
		WHERE m.group_id = $1 AND m.parent_phone = $2 AND m.status <> $3
		ORDER BY m.created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID, phone, domain.MemberStatusRemoved)
	if err != nil {
		return nil, err
	}
	return collectMembers(rows)
}

func (r *groupMemberRepository) ListActiveByGroup(ctx context.Context, groupID string) ([]*domain.GroupMember, error) {
	query := memberSelect + `
		WHERE m.group_id = $1 AND m.status <> $2
		ORDER BY m.created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID, domain.MemberStatusRemoved)
	if err != nil {
		return nil, err
	}
	return collectMembers(rows)
}

func (r *groupMemberRepository) CountActiveByGroup(ctx context.Context, groupID string) (int, error) {
	query := `SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND status <> $2`
	var count int
	err := r.DB.QueryRowContext(ctx, query, groupID, domain.MemberStatusRemoved).Scan(&count)
	return count, err
}

// UpdateGuarded always executes the conditional write, even when the update
// carries no fields; a zero affected-row count is the authoritative signal
// that the owning roster was locked.
func (r *groupMemberRepository) UpdateGuarded(ctx context.Context, memberID string, upd domain.MemberUpdate) (int64, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if upd.ParentName != nil {
		setClauses = append(setClauses, fmt.Sprintf("parent_name = $%d", n))
		args = append(args, *upd.ParentName)
		n++
	}
	if upd.Note != nil {
		setClauses = append(setClauses, fmt.Sprintf("note = $%d", n))
		args = append(args, *upd.Note)
		n++
	}
	if upd.ParentPhone.Set {
		setClauses = append(setClauses, fmt.Sprintf("parent_phone = $%d", n))
		args = append(args, upd.ParentPhone.Value)
		n++
	}
	args = append(args, memberID, domain.RosterStatusLocked)
	query := fmt.Sprintf(`
		UPDATE group_members m
		SET %s
		FROM group_passes g
		WHERE m.id = $%d AND g.id = m.group_id AND g.roster_status <> $%d
	`, strings.Join(setClauses, ", "), n, n+1)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *groupMemberRepository) UpdateChild(ctx context.Context, childID string, upd domain.ChildUpdate) error {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *upd.Name)
		n++
	}
	if upd.Grade != nil {
		setClauses = append(setClauses, fmt.Sprintf("grade = $%d", n))
		args = append(args, *upd.Grade)
		n++
	}
	if upd.AttendedTrial != nil {
		setClauses = append(setClauses, fmt.Sprintf("attended_trial = $%d", n))
		args = append(args, *upd.AttendedTrial)
		n++
	}
	if upd.AttendedGroup != nil {
		setClauses = append(setClauses, fmt.Sprintf("attended_group = $%d", n))
		args = append(args, *upd.AttendedGroup)
		n++
	}
	if upd.AttendedSolo != nil {
		setClauses = append(setClauses, fmt.Sprintf("attended_solo = $%d", n))
		args = append(args, *upd.AttendedSolo)
		n++
	}
	if n == 1 {
		return nil
	}
	args = append(args, childID)
	query := fmt.Sprintf(`UPDATE children SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), n)
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *groupMemberRepository) MarkRemovedGuarded(ctx context.Context, memberID string) (int64, error) {
	query := `
		UPDATE group_members m
		SET status = $2, updated_at = NOW()
		FROM group_passes g
		WHERE m.id = $1 AND g.id = m.group_id
		  AND m.status <> $2 AND g.roster_status <> $3
	`
	result, err := r.DB.ExecContext(ctx, query, memberID, domain.MemberStatusRemoved, domain.RosterStatusLocked)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.GroupMember, error) {
	m := &domain.GroupMember{}
	c := &domain.Child{}
	var phone, note, grade sql.NullString
	err := row.Scan(
		&m.ID, &m.GroupID, &m.ChildID, &m.ParentName, &phone, &note,
		&m.EditToken, &m.Status, &m.CreatedAt, &m.UpdatedAt,
		&c.ID, &c.Name, &grade, &c.AttendedTrial, &c.AttendedGroup, &c.AttendedSolo,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		m.ParentPhone = &phone.String
	}
	if note.Valid {
		m.Note = &note.String
	}
	if grade.Valid {
		c.Grade = &grade.String
	}
	m.Child = c
	return m, nil
}

func collectMembers(rows *sql.Rows) ([]*domain.GroupMember, error) {
	defer rows.Close()
	members := make([]*domain.GroupMember, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
