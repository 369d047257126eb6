// Package service holds the transactional core: the booking engine, the
// admin slot operations and the read-side query service. All of them
// run against the Store/Tx ports below rather than *sql.DB directly, so
// the invariants can be exercised in tests with an in-memory store
// while production wires in the MySQL implementation from the
// repository package.
package service

import (
	"context"

	"github.com/iliyamo/appointment-booking/internal/model"
)

// Store opens transactions and serves the read-only queries that need
// no locking beyond the database's default read consistency.
type Store interface {
	// Begin opens a transaction. Every returned Tx must be finished
	// with Commit or Rollback; row locks taken inside it are released
	// at that point.
	Begin(ctx context.Context) (Tx, error)

	// SlotsByDate returns a date's slots ordered by start time.
	SlotsByDate(ctx context.Context, date string) ([]model.TimeSlot, error)

	// MonthSummary aggregates slot counts per distinct date of the
	// given month. Dates without slots are absent from the result.
	MonthSummary(ctx context.Context, year, month int) ([]model.DaySummary, error)

	// BookingsWithSlots returns bookings joined with their slot's
	// date and times, ordered by creation time ascending. A non-empty
	// date restricts the result to bookings whose slot is on that date.
	BookingsWithSlots(ctx context.Context, date string) ([]model.BookingDetail, error)
}

// Tx is a single unit of work. The *ForUpdate methods acquire an
// exclusive lock on the named row that is held until Commit or
// Rollback, which is what serializes concurrent attempts on the same
// slot or booking while leaving unrelated rows untouched.
type Tx interface {
	SlotForUpdate(ctx context.Context, id string) (*model.TimeSlot, error)
	// SlotsByDate locks the date's rows (and the date range against
	// inserts) until the transaction ends, so an overlap check based on
	// its result stays valid through commit.
	SlotsByDate(ctx context.Context, date string) ([]model.TimeSlot, error)
	InsertSlot(ctx context.Context, slot *model.TimeSlot) error
	UpdateSlotTimes(ctx context.Context, id, start, end string) error
	SetSlotBooked(ctx context.Context, id string, booked bool) error
	DeleteSlot(ctx context.Context, id string) error
	HasActiveBooking(ctx context.Context, slotID string) (bool, error)

	BookingForUpdate(ctx context.Context, id string) (*model.Booking, error)
	InsertBooking(ctx context.Context, b *model.Booking) error
	SetBookingStatus(ctx context.Context, id, status string) error

	Commit() error
	Rollback() error
}

// Publisher receives state-change notifications strictly after a
// successful commit. Implementations must never block the caller for
// long and must never fail the originating operation; delivery is
// best-effort to whoever is connected at emission time.
type Publisher interface {
	SlotChanged(ctx context.Context, slot model.TimeSlot, deleted bool)
	BookingChanged(ctx context.Context, b model.Booking)
}
