package model

import "time"

// Booking statuses. A booking is created active and may transition to
// canceled exactly once; rows are never deleted, so the table doubles
// as an append-only reservation history.
const (
	BookingStatusActive   = "active"
	BookingStatusCanceled = "canceled"
)

// Booking records a customer's reservation of exactly one time-slot.
// At most one active booking may reference a slot at any moment; the
// transaction engine is the only writer of Status and of the linked
// slot's IsBooked flag.
//
// Fields:
//  ID         – opaque UUID primary key.
//  TimeslotID – the reserved slot.
//  FullName   – requester name (required).
//  Email      – requester email (required).
//  Phone      – optional contact number.
//  Notes      – optional appointment notes.
//  Status     – active or canceled.
//  CreatedAt  – creation timestamp.
type Booking struct {
	ID         string    `json:"booking_id"` // bookings.id
	TimeslotID string    `json:"timeslot_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone,omitempty"` // bookings.phone (nullable)
	Notes      *string   `json:"appointment_notes,omitempty"`
	Status     string    `json:"booking_status"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookingDetail joins a booking with its slot's date and times. It is
// what the admin listing returns and what the create-booking endpoint
// echoes back for confirmation display.
type BookingDetail struct {
	Booking
	SlotDate  string `json:"slot_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
