// Package queue defines the change events fanned out after each
// committed transaction, plus the RabbitMQ publisher and the background
// audit consumer that exchange them over the broker.
package queue

// Event types carried in an Envelope.
const (
	EventTimeslotUpdate = "timeslot_update"
	EventBookingUpdate  = "booking_update"
)

// Envelope wraps a typed payload for transport over the broker and the
// in-process hub. Data is one of TimeslotUpdate or BookingUpdate
// depending on Type.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// TimeslotUpdate is the full post-commit snapshot of a slot. Deleted is
// set when the slot was removed; subscribers drop it from their views
// instead of updating it.
type TimeslotUpdate struct {
	TimeslotID string `json:"timeslot_id"`
	SlotDate   string `json:"slot_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	IsBooked   bool   `json:"is_booked"`
	Deleted    bool   `json:"deleted,omitempty"`
}

// BookingUpdate announces a booking's post-commit status together with
// the slot it references.
type BookingUpdate struct {
	BookingID     string `json:"booking_id"`
	TimeslotID    string `json:"timeslot_id"`
	BookingStatus string `json:"booking_status"`
}
