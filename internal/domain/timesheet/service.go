package timesheet

import "context"

type Service interface {
	// GetMy builds the authenticated employee's timesheet for a range.
	GetMy(ctx context.Context, filter Filter) (TimesheetResponse, error)

	// Get builds one employee's timesheet; admin only.
	Get(ctx context.Context, filter Filter) (TimesheetResponse, error)

	// Summary builds timesheets for every active employee concurrently.
	Summary(ctx context.Context, filter Filter) (SummaryResponse, error)
}
