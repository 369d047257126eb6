// Package model defines the domain types and the sentinel errors shared
// by the service and repository layers. The sentinels form the error
// taxonomy the HTTP layer maps onto status codes: invalid input becomes
// 400, the NotFound pair becomes 404, and each Conflict variant becomes
// a 409 with its own message. Anything that is not one of these values
// is treated as a storage failure and surfaced as a generic 500 after
// the transaction has been rolled back.
package model

import "errors"

// ErrInvalidInput reports a missing or malformed required field. It is
// surfaced immediately and never retried.
var ErrInvalidInput = errors.New("invalid input")

// ErrSlotNotFound is returned when a referenced time-slot does not exist.
var ErrSlotNotFound = errors.New("timeslot not found")

// ErrBookingNotFound is returned when a referenced booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSlotBooked signals an attempt to book a slot that already carries
// an active booking.
var ErrSlotBooked = errors.New("timeslot already booked")

// ErrBookingCanceled signals a cancel on a booking that is already in
// its terminal state. The operation is deliberately not idempotent;
// callers treat this as "no-op, already canceled".
var ErrBookingCanceled = errors.New("booking already canceled")

// ErrOverlap signals that a slot's interval would intersect another
// slot on the same date.
var ErrOverlap = errors.New("timeslot overlaps an existing timeslot")

// ErrSlotHasBooking blocks deletion of a slot that an active booking
// still references.
var ErrSlotHasBooking = errors.New("timeslot has an active booking")
