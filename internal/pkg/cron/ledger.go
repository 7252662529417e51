package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tempohq/attendance-backend-go/internal/config"
	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/pkg/timeclock"
)

// LedgerJobs holds the attendance maintenance jobs: nightly absence
// marking and cleanup of lunch breaks left open.
type LedgerJobs struct {
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	cfg            config.AttendanceConfig
	loc            *time.Location
}

func NewLedgerJobs(attendanceRepo attendance.Repository, employeeRepo employee.Repository, cfg *config.Config) *LedgerJobs {
	return &LedgerJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		cfg:            cfg.Attendance,
		loc:            cfg.Location(),
	}
}

// Register wires the jobs onto the scheduler.
func (j *LedgerJobs) Register(s *Scheduler) {
	s.AddJob("mark-absent", 6*time.Hour, j.MarkAbsentees)
	s.AddJob("close-stale-lunch-breaks", time.Hour, j.CloseStaleLunchBreaks)
}

// MarkAbsentees writes status "absent" for every active employee with
// no record for yesterday. Days already holding a record (present,
// leave, holiday) are left alone; the upsert only fills gaps.
func (j *LedgerJobs) MarkAbsentees(ctx context.Context) error {
	yesterday := time.Now().In(j.loc).AddDate(0, 0, -1).Format("2006-01-02")

	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	marked := 0
	for _, emp := range employees {
		rec, err := j.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, yesterday)
		if err != nil {
			return fmt.Errorf("failed to read record for %s: %w", emp.ID, err)
		}
		if rec != nil {
			continue
		}

		if err := j.attendanceRepo.SetDayStatus(ctx, emp.ID, yesterday, attendance.StatusAbsent); err != nil {
			return fmt.Errorf("failed to mark %s absent: %w", emp.ID, err)
		}
		marked++
	}

	if marked > 0 {
		slog.Info("marked absent employees", "date", yesterday, "count", marked)
	}

	return nil
}

// CloseStaleLunchBreaks ends lunch breaks that have run past the
// configured maximum, capping the break at exactly that duration.
func (j *LedgerJobs) CloseStaleLunchBreaks(ctx context.Context) error {
	maxBreak := time.Duration(j.cfg.MaxLunchHours * float64(time.Hour))
	cutoff := time.Now().UTC().Add(-maxBreak)

	records, err := j.attendanceRepo.ListOpenLunchBreaks(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list open lunch breaks: %w", err)
	}

	for _, rec := range records {
		end := rec.LunchStartAt.Add(maxBreak)
		rec.LunchEndAt = &end
		rec.LunchHours = timeclock.BreakHours(rec.LunchStartAt, rec.LunchEndAt)

		if err := j.attendanceRepo.Update(ctx, rec); err != nil {
			return fmt.Errorf("failed to close lunch break for record %s: %w", rec.ID, err)
		}

		slog.Warn("closed stale lunch break",
			"record_id", rec.ID,
			"employee_id", rec.EmployeeID,
			"started_at", rec.LunchStartAt,
		)
	}

	return nil
}
