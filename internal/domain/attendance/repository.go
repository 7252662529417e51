package attendance

import (
	"context"
	"time"
)

// Repository defines data access for the attendance ledger. Date
// parameters take the YYYY-MM-DD form of the record key, resolved by
// the caller in the canonical timezone.
type Repository interface {
	// Create inserts a new daily record. A concurrent insert for the
	// same (employee, date) key surfaces as ErrAlreadyCheckedIn so the
	// losing caller of a check-in race gets a clean refusal.
	Create(ctx context.Context, rec Record) (Record, error)

	// Update rewrites the mutable fields of an existing record.
	Update(ctx context.Context, rec Record) error

	// GetByEmployeeAndDate returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID, dateLocal string) (*Record, error)

	// GetByEmployeeAndDateForUpdate is GetByEmployeeAndDate with a row
	// lock; it must run inside a transaction so conflicting
	// read-modify-write cycles on one key serialize.
	GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID, dateLocal string) (*Record, error)

	// ListByEmployee returns one employee's history, filtered and
	// paginated, newest first by default.
	ListByEmployee(ctx context.Context, employeeID string, filter MyFilter) ([]Record, int64, error)

	// List returns the admin-wide listing with the employee directory
	// join. The third result reports whether the rows come back in the
	// requested order; when false the caller must sort in memory.
	List(ctx context.Context, filter Filter) ([]Record, int64, bool, error)

	// ListByEmployeeRange returns all records in [startDate, endDate],
	// ascending by date. Used by timesheets and payslip generation.
	ListByEmployeeRange(ctx context.Context, employeeID, startDate, endDate string) ([]Record, error)

	// ListOpenLunchBreaks returns records whose lunch break started
	// before cutoff and never ended.
	ListOpenLunchBreaks(ctx context.Context, cutoff time.Time) ([]Record, error)

	// SetDayStatus upserts a record carrying only a day-level status
	// (absent, holiday, leave). It never touches check events on an
	// existing record.
	SetDayStatus(ctx context.Context, employeeID, dateLocal string, status Status) error
}
