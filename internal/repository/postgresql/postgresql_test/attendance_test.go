package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
	"github.com/tempohq/attendance-backend-go/internal/repository/postgresql"
)

var (
	testDB     *database.DB
	testDBOnce sync.Once
)

// testDatabase connects once per run and skips the caller when
// TEST_DATABASE_URL is not set.
func testDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	testDBOnce.Do(func() {
		var err error
		testDB, err = database.NewPostgreSQLDB(dsn)
		if err != nil {
			panic("Failed to connect to test database: " + err.Error())
		}
	})

	return testDB
}

func truncateAttendanceTables(t *testing.T, db *database.DB) {
	ctx := context.Background()
	for _, table := range []string{"attendance_records", "employees"} {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func createTestEmployee(t *testing.T, db *database.DB) string {
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	email := fmt.Sprintf("worker-%d@example.test", time.Now().UnixNano())
	emp, err := repo.Create(ctx, employee.Employee{
		FullName:   "Test Worker",
		Email:      email,
		HourlyRate: decimal.NewFromInt(20),
		Status:     employee.EmploymentActive,
	})
	require.NoError(t, err)
	return emp.ID
}

func TestAttendanceCreateAndGetRoundTrip(t *testing.T) {
	db := testDatabase(t)
	truncateAttendanceTables(t, db)

	repo := postgresql.NewAttendanceRepository(db)
	employeeID := createTestEmployee(t, db)
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	method := attendance.MethodManual
	created, err := repo.Create(ctx, attendance.Record{
		EmployeeID:    employeeID,
		WorkDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:        attendance.StatusPresent,
		CheckInAt:     &checkIn,
		CheckInMethod: &method,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByEmployeeAndDate(ctx, employeeID, "2026-03-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, attendance.CycleCheckedIn, got.Cycle())
	require.NotNil(t, got.CheckInAt)
	assert.True(t, got.CheckInAt.Equal(checkIn))
}

func TestAttendanceDuplicateCreateRefused(t *testing.T) {
	db := testDatabase(t)
	truncateAttendanceTables(t, db)

	repo := postgresql.NewAttendanceRepository(db)
	employeeID := createTestEmployee(t, db)
	ctx := context.Background()

	rec := attendance.Record{
		EmployeeID: employeeID,
		WorkDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:     attendance.StatusPresent,
	}
	_, err := repo.Create(ctx, rec)
	require.NoError(t, err)

	_, err = repo.Create(ctx, rec)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceUpdatePersistsWorkedHours(t *testing.T) {
	db := testDatabase(t)
	truncateAttendanceTables(t, db)

	repo := postgresql.NewAttendanceRepository(db)
	employeeID := createTestEmployee(t, db)
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	method := attendance.MethodManual
	created, err := repo.Create(ctx, attendance.Record{
		EmployeeID:    employeeID,
		WorkDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:        attendance.StatusPresent,
		CheckInAt:     &checkIn,
		CheckInMethod: &method,
	})
	require.NoError(t, err)

	checkOut := checkIn.Add(8 * time.Hour)
	total := 8.0
	created.CheckOutAt = &checkOut
	created.CheckOutMethod = &method
	created.TotalHours = &total
	require.NoError(t, repo.Update(ctx, created))

	got, err := repo.GetByEmployeeAndDate(ctx, employeeID, "2026-03-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.CycleCheckedOut, got.Cycle())
	require.NotNil(t, got.TotalHours)
	assert.InDelta(t, 8.0, *got.TotalHours, 0.001)
}

func TestAttendanceSetDayStatusUpsert(t *testing.T) {
	db := testDatabase(t)
	truncateAttendanceTables(t, db)

	repo := postgresql.NewAttendanceRepository(db)
	employeeID := createTestEmployee(t, db)
	ctx := context.Background()

	// No record yet: upsert creates a status-only row.
	require.NoError(t, repo.SetDayStatus(ctx, employeeID, "2026-03-11", attendance.StatusLeave))

	got, err := repo.GetByEmployeeAndDate(ctx, employeeID, "2026-03-11")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.StatusLeave, got.Status)
	assert.Equal(t, attendance.CycleNotStarted, got.Cycle())

	// Same day again: status flips, check events stay untouched.
	require.NoError(t, repo.SetDayStatus(ctx, employeeID, "2026-03-11", attendance.StatusAbsent))

	got, err = repo.GetByEmployeeAndDate(ctx, employeeID, "2026-03-11")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.StatusAbsent, got.Status)
	assert.Nil(t, got.CheckInAt)
}

func TestAttendanceListByEmployeeRangeOrdering(t *testing.T) {
	db := testDatabase(t)
	truncateAttendanceTables(t, db)

	repo := postgresql.NewAttendanceRepository(db)
	employeeID := createTestEmployee(t, db)
	ctx := context.Background()

	for _, d := range []string{"2026-03-12", "2026-03-10", "2026-03-11"} {
		workDate, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		_, err = repo.Create(ctx, attendance.Record{
			EmployeeID: employeeID,
			WorkDate:   workDate,
			Status:     attendance.StatusPresent,
		})
		require.NoError(t, err)
	}

	records, err := repo.ListByEmployeeRange(ctx, employeeID, "2026-03-10", "2026-03-11")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2026-03-10", records[0].WorkDate.Format("2006-01-02"))
	assert.Equal(t, "2026-03-11", records[1].WorkDate.Format("2006-01-02"))
}
