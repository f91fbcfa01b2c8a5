package postgres

import (
	"context"
	"database/sql"
	"errors"

	"grouppass/internal/domain"
)

type parentRepository struct {
	DB DBTX
}

// NewParentRepository returns a domain.ParentRepository implemented with Postgres.
func NewParentRepository(db DBTX) domain.ParentRepository {
	return &parentRepository{DB: db}
}

func (r *parentRepository) UpsertByPhone(ctx context.Context, name, phone string, cashReceipt *string) (*domain.Parent, error) {
	query := `
		INSERT INTO parents (name, phone, cash_receipt)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone) DO UPDATE
		SET name = EXCLUDED.name,
		    cash_receipt = COALESCE(EXCLUDED.cash_receipt, parents.cash_receipt),
		    updated_at = NOW()
		RETURNING id, name, phone, cash_receipt, created_at, updated_at
	`
	p := &domain.Parent{}
	var receipt sql.NullString
	err := r.DB.QueryRowContext(ctx, query, name, phone, cashReceipt).Scan(
		&p.ID, &p.Name, &p.Phone, &receipt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if receipt.Valid {
		p.CashReceipt = &receipt.String
	}
	return p, nil
}

func (r *parentRepository) GetByID(ctx context.Context, id string) (*domain.Parent, error) {
	query := `SELECT id, name, phone, cash_receipt, created_at, updated_at FROM parents WHERE id = $1`
	p := &domain.Parent{}
	var receipt sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Phone, &receipt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if receipt.Valid {
		p.CashReceipt = &receipt.String
	}
	return p, nil
}
