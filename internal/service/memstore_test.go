package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/iliyamo/appointment-booking/internal/model"
)

// memStore is an in-memory Store used to exercise the services without
// a database. Row locking is realized as a keyed mutex table: the
// *ForUpdate methods take the row's mutex and hold it until Commit or
// Rollback, which reproduces the serialization the SQL store gets from
// SELECT ... FOR UPDATE. Writes are staged on the transaction and
// applied atomically at commit, so a rolled-back transaction leaves no
// trace.
type memStore struct {
	mu       sync.Mutex
	slots    map[string]model.TimeSlot
	bookings map[string]model.Booking
	locks    map[string]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		slots:    make(map[string]model.TimeSlot),
		bookings: make(map[string]model.Booking),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *memStore) seedSlot(slot model.TimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot.ID] = slot
}

func (s *memStore) seedBooking(b model.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = b
}

func (s *memStore) slot(id string) (model.TimeSlot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[id]
	return sl, ok
}

func (s *memStore) booking(id string) (model.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	return b, ok
}

func (s *memStore) activeBookings(slotID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.TimeslotID == slotID && b.Status == model.BookingStatusActive {
			n++
		}
	}
	return n
}

func (s *memStore) rowLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	return m
}

func (s *memStore) slotsOn(date string) []model.TimeSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TimeSlot
	for _, sl := range s.slots {
		if sl.SlotDate == date {
			out = append(out, sl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

func (s *memStore) Begin(ctx context.Context) (Tx, error) {
	return &memTx{s: s, held: make(map[string]*sync.Mutex)}, nil
}

func (s *memStore) SlotsByDate(ctx context.Context, date string) ([]model.TimeSlot, error) {
	return s.slotsOn(date), nil
}

func (s *memStore) MonthSummary(ctx context.Context, year, month int) ([]model.DaySummary, error) {
	prefix := monthPrefix(year, month)
	s.mu.Lock()
	byDate := make(map[string]*model.DaySummary)
	for _, sl := range s.slots {
		if len(sl.SlotDate) < 7 || sl.SlotDate[:7] != prefix {
			continue
		}
		d, ok := byDate[sl.SlotDate]
		if !ok {
			d = &model.DaySummary{SlotDate: sl.SlotDate}
			byDate[sl.SlotDate] = d
		}
		d.TotalSlots++
		if sl.IsBooked {
			d.BookedSlots++
		}
	}
	s.mu.Unlock()
	out := make([]model.DaySummary, 0, len(byDate))
	for _, d := range byDate {
		d.Available = d.TotalSlots-d.BookedSlots > 0
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotDate < out[j].SlotDate })
	return out, nil
}

func (s *memStore) BookingsWithSlots(ctx context.Context, date string) ([]model.BookingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.BookingDetail
	for _, b := range s.bookings {
		sl, ok := s.slots[b.TimeslotID]
		if !ok || (date != "" && sl.SlotDate != date) {
			continue
		}
		out = append(out, model.BookingDetail{
			Booking:   b,
			SlotDate:  sl.SlotDate,
			StartTime: sl.StartTime,
			EndTime:   sl.EndTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func monthPrefix(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// memTx stages writes and applies them on Commit.
type memTx struct {
	s       *memStore
	held    map[string]*sync.Mutex
	pending []func(*memStore)
	done    bool
}

func (t *memTx) lock(key string) {
	if _, ok := t.held[key]; ok {
		return
	}
	m := t.s.rowLock(key)
	m.Lock()
	t.held[key] = m
}

func (t *memTx) SlotForUpdate(ctx context.Context, id string) (*model.TimeSlot, error) {
	t.lock("slot:" + id)
	sl, ok := t.s.slot(id)
	if !ok {
		return nil, model.ErrSlotNotFound
	}
	return &sl, nil
}

func (t *memTx) SlotsByDate(ctx context.Context, date string) ([]model.TimeSlot, error) {
	// The in-tx listing locks the whole date, mirroring the SQL store's
	// FOR UPDATE range lock, so overlap checks on the same date
	// serialize against each other and against inserts.
	t.lock("date:" + date)
	return t.s.slotsOn(date), nil
}

func (t *memTx) InsertSlot(ctx context.Context, slot *model.TimeSlot) error {
	cp := *slot
	t.pending = append(t.pending, func(s *memStore) { s.slots[cp.ID] = cp })
	return nil
}

func (t *memTx) UpdateSlotTimes(ctx context.Context, id, start, end string) error {
	t.pending = append(t.pending, func(s *memStore) {
		sl, ok := s.slots[id]
		if ok {
			sl.StartTime, sl.EndTime = start, end
			s.slots[id] = sl
		}
	})
	return nil
}

func (t *memTx) SetSlotBooked(ctx context.Context, id string, booked bool) error {
	t.pending = append(t.pending, func(s *memStore) {
		sl, ok := s.slots[id]
		if ok {
			sl.IsBooked = booked
			s.slots[id] = sl
		}
	})
	return nil
}

func (t *memTx) DeleteSlot(ctx context.Context, id string) error {
	t.pending = append(t.pending, func(s *memStore) { delete(s.slots, id) })
	return nil
}

func (t *memTx) HasActiveBooking(ctx context.Context, slotID string) (bool, error) {
	return t.s.activeBookings(slotID) > 0, nil
}

func (t *memTx) BookingForUpdate(ctx context.Context, id string) (*model.Booking, error) {
	t.lock("booking:" + id)
	b, ok := t.s.booking(id)
	if !ok {
		return nil, model.ErrBookingNotFound
	}
	return &b, nil
}

func (t *memTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	cp := *b
	t.pending = append(t.pending, func(s *memStore) { s.bookings[cp.ID] = cp })
	return nil
}

func (t *memTx) SetBookingStatus(ctx context.Context, id, status string) error {
	t.pending = append(t.pending, func(s *memStore) {
		b, ok := s.bookings[id]
		if ok {
			b.Status = status
			s.bookings[id] = b
		}
	})
	return nil
}

func (t *memTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.s.mu.Lock()
	for _, apply := range t.pending {
		apply(t.s)
	}
	t.s.mu.Unlock()
	t.finish()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *memTx) finish() {
	t.done = true
	t.pending = nil
	for _, m := range t.held {
		m.Unlock()
	}
	t.held = make(map[string]*sync.Mutex)
}

// capturePublisher records emitted events in order for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	kind    string // "timeslot_update" or "booking_update"
	id      string // slot id or booking id
	booked  bool
	deleted bool
	status  string
}

func (p *capturePublisher) SlotChanged(ctx context.Context, slot model.TimeSlot, deleted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{
		kind: "timeslot_update", id: slot.ID, booked: slot.IsBooked, deleted: deleted,
	})
}

func (p *capturePublisher) BookingChanged(ctx context.Context, b model.Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{
		kind: "booking_update", id: b.ID, status: b.Status,
	})
}

func (p *capturePublisher) all() []capturedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]capturedEvent, len(p.events))
	copy(out, p.events)
	return out
}
