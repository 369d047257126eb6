package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/appointment-booking/internal/model"
	"github.com/iliyamo/appointment-booking/internal/service"
)

// Store binds the SQL repositories into the service layer's Store port.
// Each Begin opens a database transaction whose row locks implement the
// exclusive slot/booking fetches the services rely on.
type Store struct {
	db       *sql.DB
	slots    *TimeSlotRepo
	bookings *BookingRepo
}

// NewStore wires the repositories over one shared connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		slots:    NewTimeSlotRepo(db),
		bookings: NewBookingRepo(db),
	}
}

// Begin opens a transaction at the database's default isolation level;
// the FOR UPDATE fetches inside provide the serialization the write
// paths need.
func (s *Store) Begin(ctx context.Context) (service.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &storeTx{tx: tx, s: s}, nil
}

func (s *Store) SlotsByDate(ctx context.Context, date string) ([]model.TimeSlot, error) {
	return s.slots.ListByDate(ctx, date)
}

func (s *Store) MonthSummary(ctx context.Context, year, month int) ([]model.DaySummary, error) {
	return s.slots.AggregateByMonth(ctx, year, month)
}

func (s *Store) BookingsWithSlots(ctx context.Context, date string) ([]model.BookingDetail, error) {
	return s.bookings.ListWithSlots(ctx, date)
}

// storeTx adapts one *sql.Tx to the service layer's Tx port by
// delegating to the repositories' Tx methods.
type storeTx struct {
	tx *sql.Tx
	s  *Store
}

func (t *storeTx) SlotForUpdate(ctx context.Context, id string) (*model.TimeSlot, error) {
	return t.s.slots.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) SlotsByDate(ctx context.Context, date string) ([]model.TimeSlot, error) {
	return t.s.slots.ListByDateTx(ctx, t.tx, date)
}

func (t *storeTx) InsertSlot(ctx context.Context, slot *model.TimeSlot) error {
	return t.s.slots.InsertTx(ctx, t.tx, slot)
}

func (t *storeTx) UpdateSlotTimes(ctx context.Context, id, start, end string) error {
	return t.s.slots.UpdateTimesTx(ctx, t.tx, id, start, end)
}

func (t *storeTx) SetSlotBooked(ctx context.Context, id string, booked bool) error {
	return t.s.slots.SetBookedTx(ctx, t.tx, id, booked)
}

func (t *storeTx) DeleteSlot(ctx context.Context, id string) error {
	return t.s.slots.DeleteTx(ctx, t.tx, id)
}

func (t *storeTx) HasActiveBooking(ctx context.Context, slotID string) (bool, error) {
	return t.s.bookings.HasActiveTx(ctx, t.tx, slotID)
}

func (t *storeTx) BookingForUpdate(ctx context.Context, id string) (*model.Booking, error) {
	return t.s.bookings.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	return t.s.bookings.InsertTx(ctx, t.tx, b)
}

func (t *storeTx) SetBookingStatus(ctx context.Context, id, status string) error {
	return t.s.bookings.SetStatusTx(ctx, t.tx, id, status)
}

func (t *storeTx) Commit() error   { return t.tx.Commit() }
func (t *storeTx) Rollback() error { return t.tx.Rollback() }
