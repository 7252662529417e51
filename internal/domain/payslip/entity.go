package payslip

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Payslip is the monthly pay statement derived from the attendance
// ledger. Period is the first day of the month it covers. Money fields
// are exact decimals.
type Payslip struct {
	ID           string
	EmployeeID   string
	Period       time.Time
	WorkedHours  decimal.Decimal
	HourlyRate   decimal.Decimal
	BasePay      decimal.Decimal
	Allowances   decimal.Decimal
	Deductions   decimal.Decimal
	NetPay       decimal.Decimal
	Status       Status
	PublishedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined from the employee directory for listings.
	EmployeeName  string
	EmployeeEmail string
}
