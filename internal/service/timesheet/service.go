package timesheet

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/sync/errgroup"

	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/timesheet"
)

// maxConcurrentBuilds caps the summary fan-out so one admin request
// cannot saturate the connection pool.
const maxConcurrentBuilds = 8

type TimesheetServiceImpl struct {
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
}

func NewTimesheetService(attendanceRepo attendance.Repository, employeeRepo employee.Repository) timesheet.Service {
	return &TimesheetServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
	}
}

// GetMy implements timesheet.Service.
func (s *TimesheetServiceImpl) GetMy(ctx context.Context, filter timesheet.Filter) (timesheet.TimesheetResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return timesheet.TimesheetResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	filter.EmployeeID = employeeID
	if err := filter.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	return s.build(ctx, employeeID, "", filter.StartDate, filter.EndDate)
}

// Get implements timesheet.Service.
func (s *TimesheetServiceImpl) Get(ctx context.Context, filter timesheet.Filter) (timesheet.TimesheetResponse, error) {
	if err := filter.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if filter.EmployeeID == "" {
		return timesheet.TimesheetResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, filter.EmployeeID)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	return s.build(ctx, emp.ID, emp.FullName, filter.StartDate, filter.EndDate)
}

// Summary implements timesheet.Service. One timesheet per active
// employee, built concurrently.
func (s *TimesheetServiceImpl) Summary(ctx context.Context, filter timesheet.Filter) (timesheet.SummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return timesheet.SummaryResponse{}, err
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return timesheet.SummaryResponse{}, err
	}

	var (
		mu         sync.Mutex
		timesheets []timesheet.TimesheetResponse
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBuilds)

	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			ts, err := s.build(gCtx, emp.ID, emp.FullName, filter.StartDate, filter.EndDate)
			if err != nil {
				return fmt.Errorf("timesheet for %s: %w", emp.ID, err)
			}
			mu.Lock()
			timesheets = append(timesheets, ts)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return timesheet.SummaryResponse{}, err
	}

	sort.Slice(timesheets, func(i, j int) bool {
		return timesheets[i].EmployeeName < timesheets[j].EmployeeName
	})

	return timesheet.SummaryResponse{
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		Timesheets: timesheets,
	}, nil
}

func (s *TimesheetServiceImpl) build(ctx context.Context, employeeID, employeeName, startDate, endDate string) (timesheet.TimesheetResponse, error) {
	records, err := s.attendanceRepo.ListByEmployeeRange(ctx, employeeID, startDate, endDate)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	resp := timesheet.TimesheetResponse{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		StartDate:    startDate,
		EndDate:      endDate,
		Entries:      make([]timesheet.DayEntry, 0, len(records)),
	}

	for _, rec := range records {
		entry := timesheet.DayEntry{
			Date:       rec.WorkDate.Format("2006-01-02"),
			Status:     string(rec.Status),
			LunchHours: rec.LunchHours,
			TotalHours: rec.TotalHours,
		}
		if rec.CheckInAt != nil {
			formatted := rec.CheckInAt.Format(time.RFC3339)
			entry.CheckInAt = &formatted
		}
		if rec.CheckOutAt != nil {
			formatted := rec.CheckOutAt.Format(time.RFC3339)
			entry.CheckOutAt = &formatted
		}
		resp.Entries = append(resp.Entries, entry)

		switch rec.Status {
		case attendance.StatusPresent, attendance.StatusHalfDay:
			resp.DaysPresent++
		case attendance.StatusAbsent:
			resp.DaysAbsent++
		case attendance.StatusLeave:
			resp.DaysOnLeave++
		}
		if rec.TotalHours != nil {
			resp.TotalHours += *rec.TotalHours
		}
		if rec.LunchHours != nil {
			resp.LunchHours += *rec.LunchHours
		}
	}

	return resp, nil
}
