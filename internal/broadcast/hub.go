// Package broadcast implements the process-wide fan-out of committed
// change events to connected real-time subscribers. Delivery is
// best-effort: a subscriber whose buffer is full loses the event and is
// expected to refetch on its side, and a subscriber that connects after
// emission simply never sees it. The hub holds no store locks and is
// safe under concurrent subscribe/unsubscribe/publish.
package broadcast

import (
	"sync"

	"github.com/iliyamo/appointment-booking/internal/queue"
)

// subscriberBuffer bounds how many undelivered events a slow subscriber
// may accumulate before publishes start dropping for it.
const subscriberBuffer = 16

// Hub is the subscriber registry. The zero value is not usable; create
// one with NewHub.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint64]chan queue.Envelope
	next uint64
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan queue.Envelope)}
}

// Subscribe registers a new subscriber and returns its handle together
// with the channel events arrive on. The caller must Unsubscribe with
// the handle when done; the channel is closed at that point.
func (h *Hub) Subscribe() (uint64, <-chan queue.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	ch := make(chan queue.Envelope, subscriberBuffer)
	h.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown
// handles are ignored so disconnect paths need not track state.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish fans an event out to every current subscriber without
// blocking: if a subscriber's buffer is full the event is dropped for
// that subscriber only.
func (h *Hub) Publish(env queue.Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- env:
		default: // subscriber too slow, drop
		}
	}
}

// Subscribers reports the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
