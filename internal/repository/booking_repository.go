package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/appointment-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings. A booking row is
// never deleted: cancellation flips its status so the record survives
// as history.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// InsertTx adds a new booking row within the transaction.
func (r *BookingRepo) InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (id, timeslot_id, full_name, email, phone, appointment_notes, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		b.ID, b.TimeslotID, b.FullName, b.Email, b.Phone, b.Notes, b.Status, b.CreatedAt)
	return err
}

// GetForUpdateTx fetches one booking under an exclusive row lock held
// until the transaction ends. A missing row maps to
// model.ErrBookingNotFound.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*model.Booking, error) {
	const q = `SELECT id, timeslot_id, full_name, email, phone, appointment_notes, status, created_at
		FROM bookings WHERE id = ? FOR UPDATE`
	var (
		b     model.Booking
		phone sql.NullString
		notes sql.NullString
	)
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.TimeslotID, &b.FullName, &b.Email, &phone, &notes, &b.Status, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		p := phone.String
		b.Phone = &p
	}
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}
	return &b, nil
}

// SetStatusTx rewrites a booking's status.
func (r *BookingRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id, status string) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, id)
	return err
}

// HasActiveTx reports whether any active booking references the slot.
func (r *BookingRepo) HasActiveTx(ctx context.Context, tx *sql.Tx, slotID string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM bookings WHERE timeslot_id = ? AND status = ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, slotID, model.BookingStatusActive).Scan(&exists)
	return exists, err
}

// ListWithSlots returns bookings joined with their slot, ordered by
// creation time ascending. When date is non-empty only bookings whose
// slot falls on that date are returned. Bookings whose slot has been
// deleted are omitted: the inner join drops them.
func (r *BookingRepo) ListWithSlots(ctx context.Context, date string) ([]model.BookingDetail, error) {
	q := `SELECT b.id, b.timeslot_id, b.full_name, b.email, b.phone, b.appointment_notes, b.status, b.created_at,
		DATE_FORMAT(t.slot_date, '%Y-%m-%d'), TIME_FORMAT(t.start_time, '%H:%i'), TIME_FORMAT(t.end_time, '%H:%i')
		FROM bookings b
		JOIN time_slots t ON t.id = b.timeslot_id`
	args := []any{}
	if date != "" {
		q += ` WHERE t.slot_date = ?`
		args = append(args, date)
	}
	q += ` ORDER BY b.created_at ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookingDetail
	for rows.Next() {
		var (
			d     model.BookingDetail
			phone sql.NullString
			notes sql.NullString
		)
		err := rows.Scan(
			&d.ID, &d.TimeslotID, &d.FullName, &d.Email, &phone, &notes, &d.Status, &d.CreatedAt,
			&d.SlotDate, &d.StartTime, &d.EndTime)
		if err != nil {
			return nil, err
		}
		if phone.Valid {
			p := phone.String
			d.Phone = &p
		}
		if notes.Valid {
			n := notes.String
			d.Notes = &n
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
