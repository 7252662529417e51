package payslip

import "errors"

var (
	ErrPayslipNotFound  = errors.New("payslip not found")
	ErrAlreadyGenerated = errors.New("payslip already generated for this period")
	ErrAlreadyPublished = errors.New("payslip already published")
	ErrNoRateConfigured = errors.New("employee has no hourly rate configured")
)
