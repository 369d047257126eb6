package utils // utils provides pure helpers shared across handlers and services

import (
	"time"

	"github.com/iliyamo/appointment-booking/internal/model"
)

// Times are zero-padded HH:MM strings, so lexicographic comparison is
// chronological comparison and no timezone handling is needed anywhere.

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil && len(s) == 10
}

// ValidClock reports whether s is a well-formed zero-padded HH:MM time.
func ValidClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Adjacent intervals (aEnd == bStart) do not
// overlap. Both intervals are assumed to lie on the same date.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// FirstConflict returns the first slot in existing whose interval
// overlaps [start,end), skipping the slot identified by excludeID (used
// when editing a slot so it is not compared against itself). It returns
// nil when no slot conflicts. The check deliberately includes booked
// slots: even a booked slot's time may not be edited or shadowed into
// overlap with another slot on the same date.
func FirstConflict(start, end string, existing []model.TimeSlot, excludeID string) *model.TimeSlot {
	for i := range existing {
		if existing[i].ID == excludeID {
			continue
		}
		if Overlaps(start, end, existing[i].StartTime, existing[i].EndTime) {
			return &existing[i]
		}
	}
	return nil
}
