package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"grouppass/internal/domain"
)

type reservationSlotRepository struct {
	DB DBTX
}

// NewReservationSlotRepository returns a domain.ReservationSlotRepository implemented with Postgres.
func NewReservationSlotRepository(db DBTX) domain.ReservationSlotRepository {
	return &reservationSlotRepository{DB: db}
}

const slotColumns = `id, instructor, start_at, end_at, status, created_at, updated_at`

func (r *reservationSlotRepository) GetByID(ctx context.Context, id string) (*domain.ReservationSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM reservation_slots WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *reservationSlotRepository) FindByInstructorWindow(ctx context.Context, instructor string, startAt, endAt time.Time) (*domain.ReservationSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM reservation_slots
		WHERE instructor = $1
		  AND start_at BETWEEN $2 AND $3
		  AND end_at BETWEEN $4 AND $5
		ORDER BY created_at
		LIMIT 1
	`
	tol := domain.SlotWindowTolerance
	row := r.DB.QueryRowContext(ctx, query, instructor,
		startAt.Add(-tol), startAt.Add(tol),
		endAt.Add(-tol), endAt.Add(tol),
	)
	return r.scanOne(row)
}

func (r *reservationSlotRepository) Create(ctx context.Context, slot *domain.ReservationSlot) error {
	query := `
		INSERT INTO reservation_slots (instructor, start_at, end_at, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query, slot.Instructor, slot.StartAt, slot.EndAt, slot.Status).
		Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
}

func (r *reservationSlotRepository) scanOne(row *sql.Row) (*domain.ReservationSlot, error) {
	s := &domain.ReservationSlot{}
	err := row.Scan(&s.ID, &s.Instructor, &s.StartAt, &s.EndAt, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}
