package attendance

import (
	"time"
)

// Status is the day-level disposition of a record. Present is set
// automatically on first check-in; the other values are written by the
// leave module or admin jobs.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
	StatusHoliday Status = "holiday"
	StatusLeave   Status = "leave"
)

// Method records how a check event was captured.
type Method string

const (
	MethodManual Method = "manual"
	MethodGPS    Method = "gps"
	MethodQR     Method = "qr"
	MethodSystem Method = "system"
)

// CycleState is the explicit state machine of one check-in/check-out
// cycle. All transition guards are written against this enum rather
// than against raw field presence, so illegal combinations (a lunch
// end without a start, a checkout without a check-in) cannot be
// produced by the mutating operations.
type CycleState int

const (
	CycleNotStarted CycleState = iota
	CycleCheckedIn
	CycleOnLunch
	CycleCheckedOut
)

func (s CycleState) String() string {
	switch s {
	case CycleCheckedIn:
		return "checked_in"
	case CycleOnLunch:
		return "on_lunch"
	case CycleCheckedOut:
		return "checked_out"
	default:
		return "not_started"
	}
}

// Record is the daily attendance ledger entry, keyed by
// (EmployeeID, WorkDate). WorkDate carries only the calendar date,
// resolved in the deployment's canonical timezone; timestamps are UTC.
type Record struct {
	ID         string
	EmployeeID string
	WorkDate   time.Time

	Status Status

	CheckInAt        *time.Time
	CheckInMethod    *Method
	CheckInLatitude  *float64
	CheckInLongitude *float64

	CheckOutAt        *time.Time
	CheckOutMethod    *Method
	CheckOutLatitude  *float64
	CheckOutLongitude *float64

	LunchStartAt *time.Time
	LunchEndAt   *time.Time
	LunchHours   *float64

	TotalHours *float64

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined from the employee directory for admin listings
	EmployeeName  *string
	EmployeeEmail *string
}

// Cycle derives the cycle state from the stored timestamps.
func (r *Record) Cycle() CycleState {
	switch {
	case r == nil || r.CheckInAt == nil:
		return CycleNotStarted
	case r.CheckOutAt != nil:
		return CycleCheckedOut
	case r.LunchStartAt != nil && r.LunchEndAt == nil:
		return CycleOnLunch
	default:
		return CycleCheckedIn
	}
}
