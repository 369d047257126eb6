package model

import "time"

// TimeSlot is a bookable calendar interval. Dates and times are stored
// as calendar-local strings (YYYY-MM-DD and HH:MM); the service never
// normalizes them to a timezone. The interval is half-open: a slot
// ending at 10:00 does not collide with one starting at 10:00.
//
// Fields:
//  ID        – opaque UUID primary key.
//  SlotDate  – calendar date the slot belongs to.
//  StartTime – inclusive start of the interval.
//  EndTime   – exclusive end of the interval.
//  IsBooked  – true while an active booking references the slot.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last modification timestamp.
type TimeSlot struct {
	ID        string    `json:"timeslot_id"` // time_slots.id
	SlotDate  string    `json:"slot_date"`   // time_slots.slot_date
	StartTime string    `json:"start_time"`  // time_slots.start_time
	EndTime   string    `json:"end_time"`    // time_slots.end_time
	IsBooked  bool      `json:"is_booked"`   // time_slots.is_booked
	CreatedAt time.Time `json:"-"`           // time_slots.created_at
	UpdatedAt time.Time `json:"-"`           // time_slots.updated_at
}

// DaySummary is one row of the monthly availability rollup. Dates with
// no slots at all never appear in the rollup; callers must treat
// absence as "no data" rather than "unavailable".
type DaySummary struct {
	SlotDate    string `json:"slot_date"`
	TotalSlots  int    `json:"total_slots"`
	BookedSlots int    `json:"booked_slots"`
	Available   bool   `json:"available"`
}
