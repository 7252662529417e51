package attendance

import (
	"strings"

	"github.com/tempohq/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// CheckInRequest carries an optional geolocation reading. When both
// coordinates are present the check event is recorded with method
// "gps", otherwise "manual".
type CheckInRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	return validateCoordinates(r.Latitude, r.Longitude)
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	return validateCoordinates(r.Latitude, r.Longitude)
}

func validateCoordinates(lat, lng *float64) error {
	var errs validator.ValidationErrors

	if (lat == nil) != (lng == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "geolocation",
			Message: "latitude and longitude must be provided together",
		})
	}
	if lat != nil && !validator.IsValidLatitude(*lat) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if lng != nil && !validator.IsValidLongitude(*lng) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckEventResponse struct {
	Timestamp string   `json:"timestamp"`
	Method    string   `json:"method"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type LunchBreakResponse struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

type RecordResponse struct {
	ID            string              `json:"id"`
	EmployeeID    string              `json:"employee_id"`
	EmployeeName  *string             `json:"employee_name,omitempty"`
	Date          string              `json:"date"`
	Status        string              `json:"status"`
	CycleState    string              `json:"cycle_state"`
	CheckIn       *CheckEventResponse `json:"check_in,omitempty"`
	CheckOut      *CheckEventResponse `json:"check_out,omitempty"`
	LunchBreak    *LunchBreakResponse `json:"lunch_break,omitempty"`
	TotalHours    *float64            `json:"total_hours,omitempty"`
	CreatedAt     string              `json:"created_at,omitempty"`
	UpdatedAt     string              `json:"updated_at,omitempty"`
}

// TodayStatusResponse backs the live dashboard view that decides
// button state; it is computed from a single consistent read.
type TodayStatusResponse struct {
	Date            string          `json:"date"`
	CycleState      string          `json:"cycle_state"`
	CanCheckIn      bool            `json:"can_check_in"`
	CanCheckOut     bool            `json:"can_check_out"`
	CanStartLunch   bool            `json:"can_start_lunch"`
	CanEndLunch     bool            `json:"can_end_lunch"`
	WorkedHoursSoFar *float64       `json:"worked_hours_so_far,omitempty"`
	Record          *RecordResponse `json:"record,omitempty"`
}

var validStatuses = []string{"present", "absent", "half_day", "holiday", "leave"}

// Filter is the admin-wide listing filter.
type Filter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, check_in_time, check_out_time, status, employee_name
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validatePagination(&f.Page, &f.Limit)...)
	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)

	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, half_day, holiday, leave",
		})
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "check_in_time", "check_out_time", "status", "employee_name"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, check_in_time, check_out_time, status, employee_name",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if err := validateSortOrder(&f.SortOrder); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MyFilter is the per-employee history filter (no employee fields).
type MyFilter struct {
	Date      *string `json:"date,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

func (f *MyFilter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validatePagination(&f.Page, &f.Limit)...)
	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)

	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, half_day, holiday, leave",
		})
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "check_in_time", "check_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, check_in_time, check_out_time, status",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if err := validateSortOrder(&f.SortOrder); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePagination(page, limit *int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if *page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if *page == 0 {
		*page = 1
	}

	if *limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if *limit == 0 {
		*limit = 20
	}
	if *limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	return errs
}

func validateDates(dates ...*string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	fields := []string{"date", "start_date", "end_date"}

	for i, d := range dates {
		if d != nil && *d != "" {
			if _, valid := validator.IsValidDate(*d); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   fields[i],
					Message: fields[i] + " must be in YYYY-MM-DD format",
				})
			}
		}
	}
	return errs
}

func validateSortOrder(order *string) *validator.ValidationError {
	if *order == "" {
		*order = "desc" // newest first
		return nil
	}
	if !validator.IsInSlice(strings.ToLower(*order), []string{"asc", "desc"}) {
		return &validator.ValidationError{
			Field:   "sort_order",
			Message: "sort_order must be one of: asc, desc",
		}
	}
	return nil
}

type ListResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}
