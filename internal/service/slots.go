package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/appointment-booking/internal/model"
	"github.com/iliyamo/appointment-booking/internal/utils"
)

// SlotService implements the admin-side slot lifecycle. Every mutation
// runs in a transaction and re-checks overlap against all of the
// date's slots inside that transaction; the in-tx listing locks the
// date (see Tx.SlotsByDate), so two admins racing to create or edit
// colliding slots serialize and only the first can win.
type SlotService struct {
	store Store
	pub   Publisher
}

// NewSlotService constructs the slot service.
func NewSlotService(store Store, pub Publisher) *SlotService {
	if store == nil || pub == nil {
		panic("nil dependency passed to NewSlotService")
	}
	return &SlotService{store: store, pub: pub}
}

// Create adds a new free slot on date with the half-open interval
// [start,end). It fails with ErrOverlap when any existing slot on that
// date, booked or not, intersects the interval.
func (s *SlotService) Create(ctx context.Context, date, start, end string) (*model.TimeSlot, error) {
	date, start, end = strings.TrimSpace(date), strings.TrimSpace(start), strings.TrimSpace(end)
	if err := validateInterval(date, start, end); err != nil {
		return nil, err
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

	existing, err := tx.SlotsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load slots for %s: %w", date, err)
	}
	if hit := utils.FirstConflict(start, end, existing, ""); hit != nil {
		return nil, fmt.Errorf("%w: %s-%s collides with %s-%s",
			model.ErrOverlap, start, end, hit.StartTime, hit.EndTime)
	}

	now := time.Now().UTC()
	slot := &model.TimeSlot{
		ID:        uuid.NewString(),
		SlotDate:  date,
		StartTime: start,
		EndTime:   end,
		IsBooked:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.InsertSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("insert slot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit slot: %w", err)
	}
	committed = true

	s.pub.SlotChanged(ctx, *slot, false)
	log.Printf("slot created: id=%s %s %s-%s", slot.ID, date, start, end)
	return slot, nil
}

// UpdateTimes changes a slot's start and/or end time. A nil pointer
// keeps the current value; the overlap check always runs on the
// prospective full interval against every other slot on the date,
// including booked ones — a booked slot cannot be edited into overlap
// either.
func (s *SlotService) UpdateTimes(ctx context.Context, id string, start, end *string) (*model.TimeSlot, error) {
	id = strings.TrimSpace(id)
	if id == "" || (start == nil && end == nil) {
		return nil, fmt.Errorf("%w: timeslot_id and at least one of start_time/end_time are required", model.ErrInvalidInput)
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

	slot, err := tx.SlotForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	newStart, newEnd := slot.StartTime, slot.EndTime
	if start != nil {
		newStart = strings.TrimSpace(*start)
	}
	if end != nil {
		newEnd = strings.TrimSpace(*end)
	}
	if err := validateInterval(slot.SlotDate, newStart, newEnd); err != nil {
		return nil, err
	}

	existing, err := tx.SlotsByDate(ctx, slot.SlotDate)
	if err != nil {
		return nil, fmt.Errorf("load slots for %s: %w", slot.SlotDate, err)
	}
	if hit := utils.FirstConflict(newStart, newEnd, existing, slot.ID); hit != nil {
		return nil, fmt.Errorf("%w: %s-%s collides with %s-%s",
			model.ErrOverlap, newStart, newEnd, hit.StartTime, hit.EndTime)
	}

	if err := tx.UpdateSlotTimes(ctx, slot.ID, newStart, newEnd); err != nil {
		return nil, fmt.Errorf("update slot times: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit slot update: %w", err)
	}
	committed = true

	slot.StartTime, slot.EndTime = newStart, newEnd
	s.pub.SlotChanged(ctx, *slot, false)
	log.Printf("slot updated: id=%s %s %s-%s", slot.ID, slot.SlotDate, newStart, newEnd)
	return slot, nil
}

// Delete removes a slot. It refuses with ErrSlotHasBooking while an
// active booking references the slot; canceled bookings do not block
// deletion, their history rows simply keep a slot id that no longer
// resolves (see schema.sql).
func (s *SlotService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: timeslot_id is required", model.ErrInvalidInput)
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

	slot, err := tx.SlotForUpdate(ctx, id)
	if err != nil {
		return err
	}
	active, err := tx.HasActiveBooking(ctx, slot.ID)
	if err != nil {
		return fmt.Errorf("check active bookings: %w", err)
	}
	if active {
		return model.ErrSlotHasBooking
	}
	if err := tx.DeleteSlot(ctx, slot.ID); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit slot delete: %w", err)
	}
	committed = true

	s.pub.SlotChanged(ctx, *slot, true)
	log.Printf("slot deleted: id=%s %s %s-%s", slot.ID, slot.SlotDate, slot.StartTime, slot.EndTime)
	return nil
}

// validateInterval checks formats and that the interval is non-empty.
func validateInterval(date, start, end string) error {
	if !utils.ValidDate(date) {
		return fmt.Errorf("%w: slot_date must be YYYY-MM-DD", model.ErrInvalidInput)
	}
	if !utils.ValidClock(start) || !utils.ValidClock(end) {
		return fmt.Errorf("%w: start_time and end_time must be HH:MM", model.ErrInvalidInput)
	}
	if start >= end {
		return fmt.Errorf("%w: end_time must be after start_time", model.ErrInvalidInput)
	}
	return nil
}
