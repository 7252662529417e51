package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in/check-out sequence errors
	ErrAlreadyCheckedIn = errors.New("you have already checked in today")
	ErrNotCheckedIn     = errors.New("you have no active check-in today")

	// Lunch break sequence errors
	ErrLunchBreakActive    = errors.New("a lunch break is already in progress")
	ErrLunchBreakNotActive = errors.New("no lunch break is in progress")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
)
