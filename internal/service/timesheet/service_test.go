package timesheet

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/timesheet"
)

const (
	aliceID = "7a1e9d52-0000-4000-8000-000000000001"
	bobID   = "7a1e9d52-0000-4000-8000-000000000002"
)

// fakeLedger serves ListByEmployeeRange from a fixed slice; the other
// Repository methods are unused by timesheets.
type fakeLedger struct {
	records []attendance.Record
}

func (f *fakeLedger) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	return rec, nil
}

func (f *fakeLedger) Update(ctx context.Context, rec attendance.Record) error { return nil }

func (f *fakeLedger) GetByEmployeeAndDate(ctx context.Context, employeeID, dateLocal string) (*attendance.Record, error) {
	return nil, nil
}

func (f *fakeLedger) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID, dateLocal string) (*attendance.Record, error) {
	return nil, nil
}

func (f *fakeLedger) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyFilter) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

func (f *fakeLedger) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, bool, error) {
	return nil, 0, true, nil
}

func (f *fakeLedger) ListByEmployeeRange(ctx context.Context, employeeID, startDate, endDate string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		d := rec.WorkDate.Format("2006-01-02")
		if rec.EmployeeID == employeeID && d >= startDate && d <= endDate {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkDate.Before(out[j].WorkDate) })
	return out, nil
}

func (f *fakeLedger) ListOpenLunchBreaks(ctx context.Context, cutoff time.Time) ([]attendance.Record, error) {
	return nil, nil
}

func (f *fakeLedger) SetDayStatus(ctx context.Context, employeeID, dateLocal string, status attendance.Status) error {
	return nil
}

type fakeDirectory struct {
	employees []employee.Employee
}

func (f *fakeDirectory) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	return emp, nil
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeDirectory) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeDirectory) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeDirectory) Update(ctx context.Context, emp employee.Employee) error { return nil }

func (f *fakeDirectory) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeDirectory) List(ctx context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

func (f *fakeDirectory) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		if emp.Status == employee.EmploymentActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

func claimsContext(t *testing.T, employeeID string) context.Context {
	t.Helper()

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id":     "user-1",
		"employee_id": employeeID,
		"role":        "employee",
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func day(dateLocal string) time.Time {
	d, _ := time.Parse("2006-01-02", dateLocal)
	return d
}

func presentDay(employeeID, dateLocal string, total, lunch float64) attendance.Record {
	checkIn := day(dateLocal).Add(9 * time.Hour)
	checkOut := day(dateLocal).Add(17 * time.Hour)
	return attendance.Record{
		EmployeeID: employeeID,
		WorkDate:   day(dateLocal),
		Status:     attendance.StatusPresent,
		CheckInAt:  &checkIn,
		CheckOutAt: &checkOut,
		TotalHours: &total,
		LunchHours: &lunch,
	}
}

func statusDay(employeeID, dateLocal string, status attendance.Status) attendance.Record {
	return attendance.Record{
		EmployeeID: employeeID,
		WorkDate:   day(dateLocal),
		Status:     status,
	}
}

func TestTimesheetAggregatesRange(t *testing.T) {
	ledger := &fakeLedger{records: []attendance.Record{
		presentDay(aliceID, "2026-03-09", 8.0, 1.0),
		presentDay(aliceID, "2026-03-10", 7.25, 0.75),
		statusDay(aliceID, "2026-03-11", attendance.StatusAbsent),
		statusDay(aliceID, "2026-03-12", attendance.StatusLeave),
		// Outside the range, must not count.
		presentDay(aliceID, "2026-03-20", 8.0, 1.0),
		// Another employee, must not count.
		presentDay(bobID, "2026-03-10", 8.0, 1.0),
	}}
	svc := NewTimesheetService(ledger, &fakeDirectory{})

	ts, err := svc.GetMy(claimsContext(t, aliceID), timesheet.Filter{
		StartDate: "2026-03-09",
		EndDate:   "2026-03-13",
	})
	require.NoError(t, err)

	assert.Equal(t, aliceID, ts.EmployeeID)
	assert.Equal(t, 2, ts.DaysPresent)
	assert.Equal(t, 1, ts.DaysAbsent)
	assert.Equal(t, 1, ts.DaysOnLeave)
	assert.InDelta(t, 15.25, ts.TotalHours, 0.001)
	assert.InDelta(t, 1.75, ts.LunchHours, 0.001)
	require.Len(t, ts.Entries, 4)
	assert.Equal(t, "2026-03-09", ts.Entries[0].Date)
	assert.Equal(t, "2026-03-12", ts.Entries[3].Date)
}

func TestTimesheetGetLoadsEmployeeName(t *testing.T) {
	ledger := &fakeLedger{records: []attendance.Record{
		presentDay(aliceID, "2026-03-10", 8.0, 1.0),
	}}
	directory := &fakeDirectory{employees: []employee.Employee{
		{ID: aliceID, FullName: "Alice Tan", Status: employee.EmploymentActive},
	}}
	svc := NewTimesheetService(ledger, directory)

	ts, err := svc.Get(context.Background(), timesheet.Filter{
		EmployeeID: aliceID,
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice Tan", ts.EmployeeName)
	assert.Equal(t, 1, ts.DaysPresent)
}

func TestTimesheetGetUnknownEmployee(t *testing.T) {
	svc := NewTimesheetService(&fakeLedger{}, &fakeDirectory{})

	_, err := svc.Get(context.Background(), timesheet.Filter{
		EmployeeID: aliceID,
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-31",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestSummaryCoversActiveEmployeesSorted(t *testing.T) {
	ledger := &fakeLedger{records: []attendance.Record{
		presentDay(aliceID, "2026-03-10", 8.0, 1.0),
		presentDay(bobID, "2026-03-10", 6.5, 0.5),
	}}
	directory := &fakeDirectory{employees: []employee.Employee{
		{ID: bobID, FullName: "Bob Siregar", Status: employee.EmploymentActive},
		{ID: aliceID, FullName: "Alice Tan", Status: employee.EmploymentActive},
		{ID: "7a1e9d52-0000-4000-8000-000000000003", FullName: "Gone Away", Status: employee.EmploymentInactive},
	}}
	svc := NewTimesheetService(ledger, directory)

	summary, err := svc.Summary(context.Background(), timesheet.Filter{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	})
	require.NoError(t, err)

	require.Len(t, summary.Timesheets, 2)
	assert.Equal(t, "Alice Tan", summary.Timesheets[0].EmployeeName)
	assert.Equal(t, "Bob Siregar", summary.Timesheets[1].EmployeeName)
	assert.InDelta(t, 6.5, summary.Timesheets[1].TotalHours, 0.001)
}

func TestFilterRejectsReversedRange(t *testing.T) {
	svc := NewTimesheetService(&fakeLedger{}, &fakeDirectory{})

	_, err := svc.GetMy(claimsContext(t, aliceID), timesheet.Filter{
		StartDate: "2026-03-31",
		EndDate:   "2026-03-01",
	})
	assert.Error(t, err)
}
