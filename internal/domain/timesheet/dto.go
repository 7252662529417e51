package timesheet

import (
	"github.com/tempohq/attendance-backend-go/internal/pkg/validator"
)

type Filter struct {
	EmployeeID string
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != "" && !validator.IsValidUUID(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	start, startOK := validator.IsValidDate(f.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must use format YYYY-MM-DD",
		})
	}
	end, endOK := validator.IsValidDate(f.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must use format YYYY-MM-DD",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DayEntry is one ledger date inside a timesheet.
type DayEntry struct {
	Date       string   `json:"date"`
	Status     string   `json:"status"`
	CheckInAt  *string  `json:"check_in_at,omitempty"`
	CheckOutAt *string  `json:"check_out_at,omitempty"`
	LunchHours *float64 `json:"lunch_hours,omitempty"`
	TotalHours *float64 `json:"total_hours,omitempty"`
}

// TimesheetResponse aggregates one employee over a date range.
type TimesheetResponse struct {
	EmployeeID   string     `json:"employee_id"`
	EmployeeName string     `json:"employee_name,omitempty"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	DaysPresent  int        `json:"days_present"`
	DaysAbsent   int        `json:"days_absent"`
	DaysOnLeave  int        `json:"days_on_leave"`
	TotalHours   float64    `json:"total_hours"`
	LunchHours   float64    `json:"lunch_hours"`
	Entries      []DayEntry `json:"entries"`
}

// SummaryResponse is the admin company-wide rollup: one timesheet per
// active employee over the same range.
type SummaryResponse struct {
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
	Timesheets []TimesheetResponse `json:"timesheets"`
}
