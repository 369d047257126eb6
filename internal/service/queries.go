package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/appointment-booking/internal/model"
	"github.com/iliyamo/appointment-booking/internal/utils"
)

// QueryService is the read side: no transactions, no locks, just the
// store's default read consistency.
type QueryService struct {
	store Store
}

// NewQueryService constructs the read-side service.
func NewQueryService(store Store) *QueryService {
	if store == nil {
		panic("nil store passed to NewQueryService")
	}
	return &QueryService{store: store}
}

// Calendar returns the month's availability rollup ordered by date.
// Dates carrying no slots are absent; a missing entry means "no data",
// not "fully booked".
func (q *QueryService) Calendar(ctx context.Context, year, month int) ([]model.DaySummary, error) {
	if year < 1 || month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: year and month are required", model.ErrInvalidInput)
	}
	return q.store.MonthSummary(ctx, year, month)
}

// DaySlots lists a date's slots ordered by start time.
func (q *QueryService) DaySlots(ctx context.Context, date string) ([]model.TimeSlot, error) {
	if !utils.ValidDate(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", model.ErrInvalidInput)
	}
	return q.store.SlotsByDate(ctx, date)
}

// AdminBookings lists bookings joined with their slot, ordered by
// creation time ascending. date filters by exact slot date when
// non-empty; needle filters case-insensitively on requester name or
// email, applied after retrieval.
func (q *QueryService) AdminBookings(ctx context.Context, date, needle string) ([]model.BookingDetail, error) {
	date = strings.TrimSpace(date)
	if date != "" && !utils.ValidDate(date) {
		return nil, fmt.Errorf("%w: slot_date must be YYYY-MM-DD", model.ErrInvalidInput)
	}
	items, err := q.store.BookingsWithSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return items, nil
	}
	filtered := make([]model.BookingDetail, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.FullName), needle) ||
			strings.Contains(strings.ToLower(it.Email), needle) {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}
