package service

import (
	"context"

	"github.com/iliyamo/appointment-booking/internal/broadcast"
	"github.com/iliyamo/appointment-booking/internal/model"
	"github.com/iliyamo/appointment-booking/internal/queue"
)

// EventFanout is the Publisher wired into the transaction engine. It
// pushes each committed change to the in-process hub (feeding connected
// SSE subscribers) and to the message broker for out-of-process
// consumers. Both paths are fire-and-forget: a slow subscriber or an
// unreachable broker never affects the transaction that already
// committed.
type EventFanout struct {
	hub     *broadcast.Hub
	broker  *queue.Publisher
	onEvent func()
}

// NewEventFanout builds a fanout. broker may be nil when no AMQP
// endpoint is configured; the hub is mandatory.
func NewEventFanout(hub *broadcast.Hub, broker *queue.Publisher) *EventFanout {
	if hub == nil {
		panic("nil hub passed to NewEventFanout")
	}
	return &EventFanout{hub: hub, broker: broker}
}

// OnEvent registers a hook run synchronously for every published event,
// before any subscriber buffering. The cache layer hangs its version
// bump here: unlike a hub subscription, the hook cannot drop an
// invalidation under a burst of commits. Must be set before the fanout
// is shared across goroutines.
func (f *EventFanout) OnEvent(fn func()) {
	f.onEvent = fn
}

func (f *EventFanout) publish(ctx context.Context, env queue.Envelope) {
	f.hub.Publish(env)
	if f.broker != nil {
		_ = f.broker.Publish(ctx, env) // errors are logged by the publisher
	}
	if f.onEvent != nil {
		f.onEvent()
	}
}

// SlotChanged publishes a timeslot_update carrying the post-commit slot
// snapshot, with deleted=true when the slot was removed.
func (f *EventFanout) SlotChanged(ctx context.Context, slot model.TimeSlot, deleted bool) {
	env := queue.Envelope{
		Type: queue.EventTimeslotUpdate,
		Data: queue.TimeslotUpdate{
			TimeslotID: slot.ID,
			SlotDate:   slot.SlotDate,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			IsBooked:   slot.IsBooked,
			Deleted:    deleted,
		},
	}
	f.publish(ctx, env)
}

// BookingChanged publishes a booking_update with the post-commit status.
func (f *EventFanout) BookingChanged(ctx context.Context, b model.Booking) {
	env := queue.Envelope{
		Type: queue.EventBookingUpdate,
		Data: queue.BookingUpdate{
			BookingID:     b.ID,
			TimeslotID:    b.TimeslotID,
			BookingStatus: b.Status,
		},
	}
	f.publish(ctx, env)
}
