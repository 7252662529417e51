package payslip

import "context"

type Service interface {
	// Generate builds a draft payslip from the employee's attendance
	// records for the period. Generating twice for the same
	// (employee, period) fails with ErrAlreadyGenerated.
	Generate(ctx context.Context, req GenerateRequest) (PayslipResponse, error)

	// Publish finalizes a draft and emails the employee.
	Publish(ctx context.Context, id string) (PayslipResponse, error)

	Get(ctx context.Context, id string) (PayslipResponse, error)
	ListMy(ctx context.Context) (ListPayslipsResponse, error)
	List(ctx context.Context, filter ListFilter) (ListPayslipsResponse, error)
}
