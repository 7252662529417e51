package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohq/attendance-backend-go/internal/config"
	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
)

const testEmployeeID = "7a1e9d52-0000-4000-8000-000000000001"

// fakeRepo keeps records in memory keyed by (employee, date).
type fakeRepo struct {
	records map[string]*attendance.Record
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]*attendance.Record)}
}

func key(employeeID, dateLocal string) string {
	return employeeID + "|" + dateLocal
}

func (f *fakeRepo) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	k := key(rec.EmployeeID, rec.WorkDate.Format("2006-01-02"))
	if _, exists := f.records[k]; exists {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}
	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	stored := rec
	f.records[k] = &stored
	return rec, nil
}

func (f *fakeRepo) Update(ctx context.Context, rec attendance.Record) error {
	for k, existing := range f.records {
		if existing.ID == rec.ID {
			rec.UpdatedAt = time.Now()
			stored := rec
			f.records[k] = &stored
			return nil
		}
	}
	return attendance.ErrRecordNotFound
}

func (f *fakeRepo) GetByEmployeeAndDate(ctx context.Context, employeeID, dateLocal string) (*attendance.Record, error) {
	rec, ok := f.records[key(employeeID, dateLocal)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeRepo) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID, dateLocal string) (*attendance.Record, error) {
	return f.GetByEmployeeAndDate(ctx, employeeID, dateLocal)
}

func (f *fakeRepo) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyFilter) ([]attendance.Record, int64, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID {
			out = append(out, *rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, bool, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		out = append(out, *rec)
	}
	ordered := filter.SortBy != "employee_name"
	return out, int64(len(out)), ordered, nil
}

func (f *fakeRepo) ListByEmployeeRange(ctx context.Context, employeeID, startDate, endDate string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		d := rec.WorkDate.Format("2006-01-02")
		if rec.EmployeeID == employeeID && d >= startDate && d <= endDate {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListOpenLunchBreaks(ctx context.Context, cutoff time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.LunchStartAt != nil && rec.LunchEndAt == nil && rec.CheckOutAt == nil && rec.LunchStartAt.Before(cutoff) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeRepo) SetDayStatus(ctx context.Context, employeeID, dateLocal string, status attendance.Status) error {
	k := key(employeeID, dateLocal)
	if rec, ok := f.records[k]; ok {
		rec.Status = status
		return nil
	}
	d, _ := time.Parse("2006-01-02", dateLocal)
	f.nextID++
	f.records[k] = &attendance.Record{
		ID:         fmt.Sprintf("rec-%d", f.nextID),
		EmployeeID: employeeID,
		WorkDate:   d,
		Status:     status,
	}
	return nil
}

func authedContext(t *testing.T) context.Context {
	t.Helper()

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id":     "user-1",
		"employee_id": testEmployeeID,
		"role":        "employee",
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService(repo attendance.Repository, now func() time.Time) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		repo: repo,
		cfg:  config.AttendanceConfig{Timezone: "UTC", MaxLunchHours: 3},
		loc:  time.UTC,
		now:  now,
		runTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestCheckInCreatesOpenCycle(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, func() time.Time { return at(9, 0) })
	ctx := authedContext(t)

	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	assert.Equal(t, "checked_in", resp.CycleState)
	assert.Equal(t, "present", resp.Status)
	require.NotNil(t, resp.CheckIn)
	assert.Equal(t, "manual", resp.CheckIn.Method)
	assert.Nil(t, resp.CheckOut)
	assert.Nil(t, resp.TotalHours)
}

func TestCheckInTwiceOnOpenCycleFails(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, func() time.Time { return at(9, 0) })
	ctx := authedContext(t)

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckOutWithoutCheckInFails(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, func() time.Time { return at(18, 0) })
	ctx := authedContext(t)

	_, err := svc.CheckOut(ctx, attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestFullDayWithLunch(t *testing.T) {
	repo := newFakeRepo()
	clock := at(9, 0)
	svc := newTestService(repo, func() time.Time { return clock })
	ctx := authedContext(t)

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	clock = at(12, 0)
	resp, err := svc.StartLunchBreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, "on_lunch", resp.CycleState)

	clock = at(12, 45)
	resp, err = svc.EndLunchBreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, "checked_in", resp.CycleState)
	require.NotNil(t, resp.LunchBreak)
	require.NotNil(t, resp.LunchBreak.Duration)
	assert.InDelta(t, 0.75, *resp.LunchBreak.Duration, 0.001)

	clock = at(17, 30)
	resp, err = svc.CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, "checked_out", resp.CycleState)
	require.NotNil(t, resp.TotalHours)
	assert.InDelta(t, 7.75, *resp.TotalHours, 0.001)
}

func TestCheckOutWithoutLunch(t *testing.T) {
	repo := newFakeRepo()
	clock := at(9, 0)
	svc := newTestService(repo, func() time.Time { return clock })
	ctx := authedContext(t)

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	clock = at(17, 0)
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.TotalHours)
	assert.InDelta(t, 8.0, *resp.TotalHours, 0.001)
	assert.Nil(t, resp.LunchBreak)
}

func TestCheckOutClosesOpenLunchBreak(t *testing.T) {
	repo := newFakeRepo()
	clock := at(9, 0)
	svc := newTestService(repo, func() time.Time { return clock })
	ctx := authedContext(t)

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	clock = at(12, 0)
	_, err = svc.StartLunchBreak(ctx)
	require.NoError(t, err)

	// Never ends the lunch break; checkout closes it.
	clock = at(18, 0)
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)

	require.NotNil(t, resp.LunchBreak)
	require.NotNil(t, resp.LunchBreak.End)
	require.NotNil(t, resp.TotalHours)
	assert.InDelta(t, 3.0, *resp.TotalHours, 0.001)
}

func TestLunchBreakRequiresOpenCycle(t *testing.T) {
	repo := newFakeRepo()
	clock := at(9, 0)
	svc := newTestService(repo, func() time.Time { return clock })
	ctx := authedContext(t)

	_, err := svc.StartLunchBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = svc.EndLunchBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrLunchBreakNotActive)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	_, err = svc.EndLunchBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrLunchBreakNotActive)

	clock = at(12, 0)
	_, err = svc.StartLunchBreak(ctx)
	require.NoError(t, err)

	_, err = svc.StartLunchBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrLunchBreakActive)
}

func TestSecondLunchBreakRefused(t *testing.T) {
	repo := newFakeRepo()
	clock := at(9, 0)
	svc := newTestService(repo, func() time.Time { return clock })
	ctx := authedContext(t)

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	clock = at(12, 0)
	_, err = svc.StartLunchBreak(ctx)
	require.NoError(t, err)
	clock = at(12, 30)
	_, err = svc.EndLunchBreak(ctx)
	require.NoError(t, err)

	clock = at(15, 0)
	_, err = svc.StartLunchBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrLunchBreakActive)
}

func TestReCheckInAfterCheckOutResetsCycle(t *testing.T) {
	repo := newFakeRepo()
	clock := at(9, 0)
	svc := newTestService(repo, func() time.Time { return clock })
	ctx := authedContext(t)

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	clock = at(12, 0)
	_, err = svc.StartLunchBreak(ctx)
	require.NoError(t, err)
	clock = at(12, 30)
	_, err = svc.EndLunchBreak(ctx)
	require.NoError(t, err)

	clock = at(13, 0)
	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)

	clock = at(14, 0)
	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	assert.Equal(t, "checked_in", resp.CycleState)
	assert.Nil(t, resp.CheckOut)
	assert.Nil(t, resp.LunchBreak)
	assert.Nil(t, resp.TotalHours)
	require.NotNil(t, resp.CheckIn)
	assert.Equal(t, at(14, 0).Format(time.RFC3339), resp.CheckIn.Timestamp)
}

func TestRepeatedCheckOutOverwrites(t *testing.T) {
	repo := newFakeRepo()
	clock := at(9, 0)
	svc := newTestService(repo, func() time.Time { return clock })
	ctx := authedContext(t)

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	clock = at(17, 0)
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, *resp.TotalHours, 0.001)

	clock = at(18, 0)
	resp, err = svc.CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)
	assert.InDelta(t, 9.0, *resp.TotalHours, 0.001)
	assert.Equal(t, at(18, 0).Format(time.RFC3339), resp.CheckOut.Timestamp)
}

func TestCheckInWithGPSRecordsMethod(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, func() time.Time { return at(9, 0) })
	ctx := authedContext(t)

	lat, lng := -6.2, 106.8
	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{Latitude: &lat, Longitude: &lng})
	require.NoError(t, err)

	require.NotNil(t, resp.CheckIn)
	assert.Equal(t, "gps", resp.CheckIn.Method)
	assert.Equal(t, lat, *resp.CheckIn.Latitude)
}

func TestCheckInRejectsLoneCoordinate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, func() time.Time { return at(9, 0) })
	ctx := authedContext(t)

	lat := -6.2
	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{Latitude: &lat})
	assert.Error(t, err)
}

func TestTodayStatusTransitions(t *testing.T) {
	repo := newFakeRepo()
	clock := at(8, 0)
	svc := newTestService(repo, func() time.Time { return clock })
	ctx := authedContext(t)

	status, err := svc.TodayStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "not_started", status.CycleState)
	assert.True(t, status.CanCheckIn)
	assert.False(t, status.CanCheckOut)
	assert.False(t, status.CanStartLunch)

	clock = at(9, 0)
	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	clock = at(11, 0)
	status, err = svc.TodayStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "checked_in", status.CycleState)
	assert.False(t, status.CanCheckIn)
	assert.True(t, status.CanCheckOut)
	assert.True(t, status.CanStartLunch)
	require.NotNil(t, status.WorkedHoursSoFar)
	assert.InDelta(t, 2.0, *status.WorkedHoursSoFar, 0.001)

	clock = at(12, 0)
	_, err = svc.StartLunchBreak(ctx)
	require.NoError(t, err)

	status, err = svc.TodayStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "on_lunch", status.CycleState)
	assert.True(t, status.CanEndLunch)
	assert.False(t, status.CanStartLunch)

	clock = at(12, 30)
	_, err = svc.EndLunchBreak(ctx)
	require.NoError(t, err)
	clock = at(17, 0)
	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)

	status, err = svc.TodayStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "checked_out", status.CycleState)
	assert.True(t, status.CanCheckIn)
	assert.False(t, status.CanCheckOut)
}

func TestConcurrentCreateLoserGetsAlreadyCheckedIn(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, func() time.Time { return at(9, 0) })
	ctx := authedContext(t)

	// Simulate the losing side of a create race: the record appears
	// between the read and the insert.
	_, err := repo.Create(context.Background(), attendance.Record{
		EmployeeID: testEmployeeID,
		WorkDate:   at(9, 0),
		Status:     attendance.StatusPresent,
		CheckInAt:  ptrTime(at(8, 59)),
	})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckInOverLeaveDayReclaimsRecord(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, func() time.Time { return at(9, 0) })
	ctx := authedContext(t)

	require.NoError(t, repo.SetDayStatus(context.Background(), testEmployeeID, "2026-03-10", attendance.StatusLeave))

	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "present", resp.Status)
	assert.Equal(t, "checked_in", resp.CycleState)
}

func TestAdminListNameSortHoldsAcrossPages(t *testing.T) {
	repo := newFakeRepo()
	// Date order is the reverse of name order, so a page sliced before
	// the name sort would surface the wrong employees.
	names := []string{"Zoe Larasati", "Mona Rahma", "Aaron Putra"}
	for i, name := range names {
		n := name
		employeeID := fmt.Sprintf("emp-%d", i)
		workDate := time.Date(2026, 3, 10+i, 0, 0, 0, 0, time.UTC)
		repo.records[key(employeeID, workDate.Format("2006-01-02"))] = &attendance.Record{
			ID:           fmt.Sprintf("rec-%d", i),
			EmployeeID:   employeeID,
			WorkDate:     workDate,
			Status:       attendance.StatusPresent,
			EmployeeName: &n,
		}
	}
	svc := newTestService(repo, time.Now)

	page1, err := svc.ListAttendance(context.Background(), attendance.Filter{
		SortBy:    "employee_name",
		SortOrder: "asc",
		Page:      1,
		Limit:     2,
	})
	require.NoError(t, err)
	require.Len(t, page1.Records, 2)
	assert.Equal(t, "Aaron Putra", *page1.Records[0].EmployeeName)
	assert.Equal(t, "Mona Rahma", *page1.Records[1].EmployeeName)

	page2, err := svc.ListAttendance(context.Background(), attendance.Filter{
		SortBy:    "employee_name",
		SortOrder: "asc",
		Page:      2,
		Limit:     2,
	})
	require.NoError(t, err)
	require.Len(t, page2.Records, 1)
	assert.Equal(t, "Zoe Larasati", *page2.Records[0].EmployeeName)
	assert.Equal(t, int64(3), page2.TotalCount)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
