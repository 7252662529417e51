package payslip

import (
	"regexp"

	"github.com/tempohq/attendance-backend-go/internal/pkg/validator"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type GenerateRequest struct {
	EmployeeID string `json:"employee_id"`
	Period     string `json:"period"` // YYYY-MM
	Allowances string `json:"allowances,omitempty"`
	Deductions string `json:"deductions,omitempty"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if !periodPattern.MatchString(r.Period) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must use format YYYY-MM",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayslipResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	EmployeeEmail string  `json:"employee_email,omitempty"`
	Period        string  `json:"period"`
	WorkedHours   string  `json:"worked_hours"`
	HourlyRate    string  `json:"hourly_rate"`
	BasePay       string  `json:"base_pay"`
	Allowances    string  `json:"allowances"`
	Deductions    string  `json:"deductions"`
	NetPay        string  `json:"net_pay"`
	Status        string  `json:"status"`
	PublishedAt   *string `json:"published_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type ListFilter struct {
	EmployeeID string
	Period     string
	Page       int
	Limit      int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != "" && !validator.IsValidUUID(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if f.Period != "" && !periodPattern.MatchString(f.Period) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must use format YYYY-MM",
		})
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListPayslipsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Payslips   []PayslipResponse `json:"payslips"`
}
