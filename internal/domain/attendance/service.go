package attendance

import (
	"context"
)

// Service defines the ledger operations. The four mutating operations
// each run as one atomic transaction; a failure leaves the record
// exactly as it was. The acting employee is taken from the request
// context's JWT claims.
type Service interface {
	// CheckIn opens a new cycle for today. Re-checking-in over a
	// completed cycle starts a fresh one (previous checkout, lunch and
	// total hours are cleared); over an open cycle it fails with
	// ErrAlreadyCheckedIn.
	CheckIn(ctx context.Context, req CheckInRequest) (RecordResponse, error)

	// CheckOut closes the open cycle and writes total hours. An open
	// lunch break is auto-closed at the checkout timestamp. Repeating
	// a checkout overwrites the previous one.
	CheckOut(ctx context.Context, req CheckOutRequest) (RecordResponse, error)

	// StartLunchBreak and EndLunchBreak manage the break sub-interval
	// of the open cycle.
	StartLunchBreak(ctx context.Context) (RecordResponse, error)
	EndLunchBreak(ctx context.Context) (RecordResponse, error)

	// TodayStatus is the consistent single-record read backing the
	// dashboard's button state.
	TodayStatus(ctx context.Context) (TodayStatusResponse, error)

	// GetMyAttendance lists the authenticated employee's history.
	GetMyAttendance(ctx context.Context, filter MyFilter) (ListResponse, error)

	// ListAttendance is the admin-wide listing with directory names.
	ListAttendance(ctx context.Context, filter Filter) (ListResponse, error)
}
