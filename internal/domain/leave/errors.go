package leave

import "errors"

var (
	ErrRequestNotFound  = errors.New("leave request not found")
	ErrAlreadyProcessed = errors.New("leave request already processed")
	ErrInvalidDateRange = errors.New("leave end date is before start date")
	ErrNotRequestOwner  = errors.New("leave request belongs to another employee")
)
