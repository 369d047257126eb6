package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/appointment-booking/internal/model"
)

// TimeSlotRepo provides CRUD operations for time slots. Slot dates and
// clock times are stored as DATE and TIME columns and always selected
// through DATE_FORMAT/TIME_FORMAT so the application only ever sees the
// canonical "YYYY-MM-DD" and "HH:MM" strings, whatever the driver's
// parseTime setting.
type TimeSlotRepo struct {
	db *sql.DB
}

// NewTimeSlotRepo returns a new TimeSlotRepo bound to the given database.
func NewTimeSlotRepo(db *sql.DB) *TimeSlotRepo { return &TimeSlotRepo{db: db} }

const slotColumns = `id, DATE_FORMAT(slot_date, '%Y-%m-%d'), TIME_FORMAT(start_time, '%H:%i'),
	TIME_FORMAT(end_time, '%H:%i'), is_booked, created_at, updated_at`

func scanSlot(row interface{ Scan(...any) error }) (*model.TimeSlot, error) {
	var s model.TimeSlot
	err := row.Scan(&s.ID, &s.SlotDate, &s.StartTime, &s.EndTime, &s.IsBooked, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByDate returns the date's slots ordered by start time.
func (r *TimeSlotRepo) ListByDate(ctx context.Context, date string) ([]model.TimeSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM time_slots WHERE slot_date = ? ORDER BY start_time ASC`
	return r.listByDate(ctx, r.db.QueryContext, q, date)
}

// ListByDateTx is ListByDate inside an open transaction. The rows come
// back locked (FOR UPDATE) and the range lock on the slot_date index
// keeps concurrent inserts for that date out until commit, so the
// overlap check that follows runs against a snapshot no concurrent
// create or edit can invalidate.
func (r *TimeSlotRepo) ListByDateTx(ctx context.Context, tx *sql.Tx, date string) ([]model.TimeSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM time_slots WHERE slot_date = ? ORDER BY start_time ASC FOR UPDATE`
	return r.listByDate(ctx, tx.QueryContext, q, date)
}

type queryFunc func(ctx context.Context, query string, args ...any) (*sql.Rows, error)

func (r *TimeSlotRepo) listByDate(ctx context.Context, query queryFunc, q, date string) ([]model.TimeSlot, error) {
	rows, err := query(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TimeSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// AggregateByMonth rolls the month's slots up per date. Dates without
// slots produce no row.
func (r *TimeSlotRepo) AggregateByMonth(ctx context.Context, year, month int) ([]model.DaySummary, error) {
	const q = `SELECT DATE_FORMAT(slot_date, '%Y-%m-%d') AS d,
		COUNT(*) AS total,
		COALESCE(SUM(is_booked), 0) AS booked
		FROM time_slots
		WHERE YEAR(slot_date) = ? AND MONTH(slot_date) = ?
		GROUP BY slot_date
		ORDER BY slot_date ASC`
	rows, err := r.db.QueryContext(ctx, q, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DaySummary
	for rows.Next() {
		var d model.DaySummary
		if err := rows.Scan(&d.SlotDate, &d.TotalSlots, &d.BookedSlots); err != nil {
			return nil, err
		}
		d.Available = d.TotalSlots-d.BookedSlots > 0
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetForUpdateTx fetches one slot under an exclusive row lock held until
// the transaction ends. A missing row maps to model.ErrSlotNotFound.
func (r *TimeSlotRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*model.TimeSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM time_slots WHERE id = ? FOR UPDATE`
	s, err := scanSlot(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// InsertTx adds a new slot row within the transaction.
func (r *TimeSlotRepo) InsertTx(ctx context.Context, tx *sql.Tx, s *model.TimeSlot) error {
	const q = `INSERT INTO time_slots (id, slot_date, start_time, end_time, is_booked) VALUES (?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, s.ID, s.SlotDate, s.StartTime, s.EndTime, s.IsBooked)
	return err
}

// UpdateTimesTx rewrites a slot's interval.
func (r *TimeSlotRepo) UpdateTimesTx(ctx context.Context, tx *sql.Tx, id, start, end string) error {
	const q = `UPDATE time_slots SET start_time = ?, end_time = ?, updated_at = NOW() WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, start, end, id)
	return err
}

// SetBookedTx flips the slot's booked flag.
func (r *TimeSlotRepo) SetBookedTx(ctx context.Context, tx *sql.Tx, id string, booked bool) error {
	const q = `UPDATE time_slots SET is_booked = ?, updated_at = NOW() WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, booked, id)
	return err
}

// DeleteTx removes the slot row.
func (r *TimeSlotRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	const q = `DELETE FROM time_slots WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}
