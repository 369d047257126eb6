package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/appointment-booking/internal/model"
	"github.com/iliyamo/appointment-booking/internal/utils"
)

// slowListStore delays the in-tx date listing, widening the window
// between the overlap check and commit so races that would slip through
// an unserialized check surface reliably.
type slowListStore struct {
	*memStore
}

func (s *slowListStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.memStore.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &slowListTx{Tx: tx}, nil
}

type slowListTx struct {
	Tx
}

func (t *slowListTx) SlotsByDate(ctx context.Context, date string) ([]model.TimeSlot, error) {
	slots, err := t.Tx.SlotsByDate(ctx, date)
	time.Sleep(5 * time.Millisecond)
	return slots, err
}

func TestSlotCreate(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewSlotService(store, pub)

	slot, err := svc.Create(context.Background(), "2023-10-15", "09:30", "10:00")
	require.NoError(t, err)
	assert.NotEmpty(t, slot.ID)
	assert.False(t, slot.IsBooked)

	got, ok := store.slot(slot.ID)
	require.True(t, ok)
	assert.Equal(t, "2023-10-15", got.SlotDate)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, "timeslot_update", events[0].kind)
	assert.False(t, events[0].deleted)
}

func TestSlotCreateOverlap(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewSlotService(store, pub)
	seedOpenSlot(store, "ts2", "2023-10-15", "09:30", "10:00")
	seedOpenSlot(store, "ts4", "2023-10-15", "10:30", "11:00")

	// 09:45-10:15 intersects ts2.
	_, err := svc.Create(context.Background(), "2023-10-15", "09:45", "10:15")
	assert.ErrorIs(t, err, model.ErrOverlap)

	// Touching boundaries is fine: 10:00-10:30 sits exactly between.
	_, err = svc.Create(context.Background(), "2023-10-15", "10:00", "10:30")
	require.NoError(t, err)

	// Same interval on another date never collides.
	_, err = svc.Create(context.Background(), "2023-10-16", "09:45", "10:15")
	require.NoError(t, err)
}

// TestSlotCreateConcurrentSameDate races identical creates on one date
// and checks that the in-transaction date lock lets exactly one commit;
// without it both overlap checks would pass on the same pre-insert
// snapshot and two colliding slots would persist.
func TestSlotCreateConcurrentSameDate(t *testing.T) {
	mem := newMemStore()
	svc := NewSlotService(&slowListStore{memStore: mem}, &capturePublisher{})

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), "2023-10-15", "09:00", "10:00")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, model.ErrOverlap):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, mem.slotsOn("2023-10-15"), 1)
}

// TestSlotUpdateConcurrentEdits races two edits of different slots into
// a mutual collision; serialized checks mean whichever commits first
// makes the other an overlap conflict.
func TestSlotUpdateConcurrentEdits(t *testing.T) {
	mem := newMemStore()
	svc := NewSlotService(&slowListStore{memStore: mem}, &capturePublisher{})
	seedOpenSlot(mem, "ts1", "2023-10-15", "09:00", "09:30")
	seedOpenSlot(mem, "ts2", "2023-10-15", "10:00", "10:30")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	endA := "10:15"
	startB := "09:15"
	edits := []func() (*model.TimeSlot, error){
		func() (*model.TimeSlot, error) {
			return svc.UpdateTimes(context.Background(), "ts1", nil, &endA)
		},
		func() (*model.TimeSlot, error) {
			return svc.UpdateTimes(context.Background(), "ts2", &startB, nil)
		},
	}
	for _, edit := range edits {
		wg.Add(1)
		go func(edit func() (*model.TimeSlot, error)) {
			defer wg.Done()
			_, err := edit()
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, model.ErrOverlap):
				conflicts++
			}
		}(edit)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	// Whatever the interleaving, the persisted slots must not overlap.
	a, _ := mem.slot("ts1")
	b, _ := mem.slot("ts2")
	assert.False(t, utils.Overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime),
		"persisted %s-%s and %s-%s overlap", a.StartTime, a.EndTime, b.StartTime, b.EndTime)
}

func TestSlotCreateOverlapWithBookedSlot(t *testing.T) {
	store := newMemStore()
	svc := NewSlotService(store, &capturePublisher{})
	store.seedSlot(model.TimeSlot{
		ID: "ts9", SlotDate: "2023-10-15", StartTime: "14:00", EndTime: "15:00", IsBooked: true,
	})

	// Booked slots participate in the overlap check like any other.
	_, err := svc.Create(context.Background(), "2023-10-15", "14:30", "15:30")
	assert.ErrorIs(t, err, model.ErrOverlap)
}

func TestSlotCreateValidation(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewSlotService(store, pub)

	cases := []struct{ date, start, end string }{
		{"2023-13-40", "09:00", "10:00"}, // impossible date
		{"15-10-2023", "09:00", "10:00"}, // wrong layout
		{"2023-10-15", "9:00", "10:00"},  // unpadded hour
		{"2023-10-15", "09:60", "10:00"}, // impossible minute
		{"2023-10-15", "10:00", "10:00"}, // empty interval
		{"2023-10-15", "10:30", "10:00"}, // inverted interval
	}
	for _, c := range cases {
		_, err := svc.Create(context.Background(), c.date, c.start, c.end)
		assert.ErrorIs(t, err, model.ErrInvalidInput, "date=%s start=%s end=%s", c.date, c.start, c.end)
	}
	assert.Empty(t, pub.all())
}

func TestSlotUpdateTimes(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewSlotService(store, pub)
	seedOpenSlot(store, "ts1", "2023-10-15", "09:00", "09:30")
	seedOpenSlot(store, "ts2", "2023-10-15", "09:30", "10:00")

	// Partial update: only the end moves, start is kept.
	end := "09:25"
	slot, err := svc.UpdateTimes(context.Background(), "ts1", nil, &end)
	require.NoError(t, err)
	assert.Equal(t, "09:00", slot.StartTime)
	assert.Equal(t, "09:25", slot.EndTime)

	got, _ := store.slot("ts1")
	assert.Equal(t, "09:25", got.EndTime)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, "timeslot_update", events[0].kind)
}

func TestSlotUpdateTimesSelfExclusion(t *testing.T) {
	store := newMemStore()
	svc := NewSlotService(store, &capturePublisher{})
	seedOpenSlot(store, "ts1", "2023-10-15", "09:00", "09:30")

	// Re-submitting a slot's own interval is not a conflict with itself.
	start, end := "09:00", "09:30"
	_, err := svc.UpdateTimes(context.Background(), "ts1", &start, &end)
	require.NoError(t, err)
}

func TestSlotUpdateTimesOverlap(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewSlotService(store, pub)
	seedOpenSlot(store, "ts1", "2023-10-15", "09:00", "09:30")
	store.seedSlot(model.TimeSlot{
		ID: "ts2", SlotDate: "2023-10-15", StartTime: "09:30", EndTime: "10:00", IsBooked: true,
	})

	// Stretching ts1 into the booked ts2 must fail.
	end := "09:45"
	_, err := svc.UpdateTimes(context.Background(), "ts1", nil, &end)
	assert.ErrorIs(t, err, model.ErrOverlap)

	got, _ := store.slot("ts1")
	assert.Equal(t, "09:30", got.EndTime)
	assert.Empty(t, pub.all())
}

func TestSlotUpdateTimesValidation(t *testing.T) {
	store := newMemStore()
	svc := NewSlotService(store, &capturePublisher{})
	seedOpenSlot(store, "ts1", "2023-10-15", "09:00", "09:30")

	_, err := svc.UpdateTimes(context.Background(), "ts1", nil, nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	bad := "9am"
	_, err = svc.UpdateTimes(context.Background(), "ts1", &bad, nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	start := "10:00"
	_, err = svc.UpdateTimes(context.Background(), "missing", &start, nil)
	assert.ErrorIs(t, err, model.ErrSlotNotFound)
}

func TestSlotDelete(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewSlotService(store, pub)
	seedOpenSlot(store, "ts1", "2023-10-15", "09:00", "09:30")

	require.NoError(t, svc.Delete(context.Background(), "ts1"))
	_, ok := store.slot("ts1")
	assert.False(t, ok)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, "timeslot_update", events[0].kind)
	assert.True(t, events[0].deleted)

	err := svc.Delete(context.Background(), "ts1")
	assert.ErrorIs(t, err, model.ErrSlotNotFound)
}

func TestSlotDeleteWithActiveBooking(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	slots := NewSlotService(store, pub)
	bookings := NewBookingService(store, pub)
	seedOpenSlot(store, "ts3", "2023-10-15", "10:00", "10:30")

	detail, err := bookings.CreateBooking(context.Background(), CreateBookingInput{
		TimeslotID: "ts3", FullName: "Jane Doe", Email: "jane@example.com",
	})
	require.NoError(t, err)

	err = slots.Delete(context.Background(), "ts3")
	assert.ErrorIs(t, err, model.ErrSlotHasBooking)
	_, ok := store.slot("ts3")
	assert.True(t, ok)

	// Once the booking is canceled the slot can go; its canceled
	// history row does not block deletion.
	require.NoError(t, bookings.CancelBooking(context.Background(), detail.ID))
	require.NoError(t, slots.Delete(context.Background(), "ts3"))
	_, ok = store.slot("ts3")
	assert.False(t, ok)
}
