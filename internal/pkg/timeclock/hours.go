// Package timeclock holds the pure time arithmetic for the attendance
// ledger: converting timestamp pairs into decimal worked hours, with
// lunch breaks subtracted. Nothing here touches the database or the
// wall clock; callers pass every timestamp in.
package timeclock

import (
	"math"
	"time"
)

// RoundHours rounds decimal hours to 2 places for storage and display.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// ElapsedHours returns the decimal hours between start and end, clamped
// to zero. Clock skew between the recording host and the database can
// produce end < start; that must never surface as negative hours.
func ElapsedHours(start, end time.Time) float64 {
	h := end.Sub(start).Hours()
	if h < 0 || math.IsNaN(h) {
		return 0
	}
	return h
}

// ElapsedHoursPtr is the nil-tolerant form used by live views, where a
// record that is checked in but not out is the common case.
func ElapsedHoursPtr(start, end *time.Time) *float64 {
	if start == nil || end == nil {
		return nil
	}
	h := ElapsedHours(*start, *end)
	return &h
}

// NetWorkedHours computes hours worked between checkIn and checkOut
// minus the lunch break. A completed break subtracts its own span. A
// break with only a start (still on lunch at the cutoff) subtracts
// start→checkOut, which is the same figure produced by auto-closing
// the break at checkout time. The result is clamped to zero and
// rounded to 2 decimals.
func NetWorkedHours(checkIn, checkOut time.Time, lunchStart, lunchEnd *time.Time) float64 {
	worked := ElapsedHours(checkIn, checkOut)

	if lunchStart != nil {
		breakEnd := checkOut
		if lunchEnd != nil {
			breakEnd = *lunchEnd
		}
		worked -= ElapsedHours(*lunchStart, breakEnd)
	}

	if worked < 0 {
		worked = 0
	}
	return RoundHours(worked)
}

// BreakHours returns the rounded span of a completed lunch break, or
// nil while the break is still open.
func BreakHours(lunchStart, lunchEnd *time.Time) *float64 {
	h := ElapsedHoursPtr(lunchStart, lunchEnd)
	if h == nil {
		return nil
	}
	rounded := RoundHours(*h)
	return &rounded
}
