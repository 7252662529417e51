package payslip

import (
	"context"
	"time"
)

type Repository interface {
	// Create inserts a payslip. A unique (employee_id, period)
	// violation maps to ErrAlreadyGenerated.
	Create(ctx context.Context, p Payslip) (Payslip, error)
	GetByID(ctx context.Context, id string) (Payslip, error)
	GetByEmployeeAndPeriod(ctx context.Context, employeeID string, period time.Time) (*Payslip, error)
	Update(ctx context.Context, p Payslip) error
	ListByEmployee(ctx context.Context, employeeID string) ([]Payslip, error)
	List(ctx context.Context, filter ListFilter) ([]Payslip, int64, error)
}
