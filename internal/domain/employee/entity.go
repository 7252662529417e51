package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentStatus string

const (
	EmploymentActive   EmploymentStatus = "active"
	EmploymentInactive EmploymentStatus = "inactive"
)

type Employee struct {
	ID         string
	FullName   string
	Email      string
	Position   *string
	HourlyRate decimal.Decimal
	Status     EmploymentStatus
	UserID     *string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
