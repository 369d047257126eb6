package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/appointment-booking/internal/model"
)

// BookingService is the transaction engine for reservations. It is the
// sole writer of booking status and of a slot's booked flag: both
// fields change only inside one of the two transactions below, under
// an exclusive lock on the rows involved.
type BookingService struct {
	store Store
	pub   Publisher
}

// NewBookingService constructs the engine. Both dependencies must be
// non-nil.
func NewBookingService(store Store, pub Publisher) *BookingService {
	if store == nil || pub == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{store: store, pub: pub}
}

// CreateBookingInput carries the request fields for a new reservation.
// TimeslotID, FullName and Email are required; Phone and Notes may be
// nil.
type CreateBookingInput struct {
	TimeslotID string
	FullName   string
	Email      string
	Phone      *string
	Notes      *string
}

// CreateBooking reserves a slot: it locks the slot row, rejects the
// request when the slot is already booked, flips the booked flag and
// inserts the booking, all in one transaction. On commit it emits the
// slot update followed by the booking update, matching the order the
// rows changed in. Returns the booking joined with the slot's date and
// times for confirmation display.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.BookingDetail, error) {
	in.TimeslotID = strings.TrimSpace(in.TimeslotID)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if in.TimeslotID == "" || in.FullName == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: timeslot_id, full_name and email are required", model.ErrInvalidInput)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	slot, err := tx.SlotForUpdate(ctx, in.TimeslotID)
	if err != nil {
		return nil, err
	}
	if slot.IsBooked {
		return nil, model.ErrSlotBooked
	}
	if err := tx.SetSlotBooked(ctx, slot.ID, true); err != nil {
		return nil, fmt.Errorf("mark slot booked: %w", err)
	}

	booking := &model.Booking{
		ID:         uuid.NewString(),
		TimeslotID: slot.ID,
		FullName:   in.FullName,
		Email:      in.Email,
		Phone:      in.Phone,
		Notes:      in.Notes,
		Status:     model.BookingStatusActive,
		CreatedAt:  time.Now().UTC(),
	}
	if err := tx.InsertBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}
	committed = true

	// Emission happens only here, after the lock-releasing commit.
	slot.IsBooked = true
	s.pub.SlotChanged(ctx, *slot, false)
	s.pub.BookingChanged(ctx, *booking)

	log.Printf("booking created: id=%s slot=%s date=%s %s-%s",
		booking.ID, slot.ID, slot.SlotDate, slot.StartTime, slot.EndTime)

	return &model.BookingDetail{
		Booking:   *booking,
		SlotDate:  slot.SlotDate,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	}, nil
}

// CancelBooking transitions a booking to canceled and frees its slot.
// Canceling an already-canceled booking fails with ErrBookingCanceled;
// the state machine has no transition out of the terminal state, so
// the second call is a conflict rather than a silent no-op.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) error {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return fmt.Errorf("%w: booking_id is required", model.ErrInvalidInput)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := tx.BookingForUpdate(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == model.BookingStatusCanceled {
		return model.ErrBookingCanceled
	}
	if err := tx.SetBookingStatus(ctx, booking.ID, model.BookingStatusCanceled); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}

	slot, err := tx.SlotForUpdate(ctx, booking.TimeslotID)
	if err != nil {
		return err
	}
	if err := tx.SetSlotBooked(ctx, slot.ID, false); err != nil {
		return fmt.Errorf("free slot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cancellation: %w", err)
	}
	committed = true

	booking.Status = model.BookingStatusCanceled
	slot.IsBooked = false
	s.pub.BookingChanged(ctx, *booking)
	s.pub.SlotChanged(ctx, *slot, false)

	log.Printf("booking canceled: id=%s slot=%s", booking.ID, slot.ID)
	return nil
}
