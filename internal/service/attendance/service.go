package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"

	"github.com/tempohq/attendance-backend-go/internal/config"
	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
	"github.com/tempohq/attendance-backend-go/internal/pkg/sse"
	"github.com/tempohq/attendance-backend-go/internal/pkg/timeclock"
	"github.com/tempohq/attendance-backend-go/internal/pkg/utils"
	"github.com/tempohq/attendance-backend-go/internal/repository/postgresql"
)

// txFunc runs fn with repository calls routed through one transaction.
// Extracted so state-machine tests can substitute a passthrough.
type txFunc func(ctx context.Context, fn func(ctx context.Context) error) error

type AttendanceServiceImpl struct {
	repo attendance.Repository
	hub  *sse.Hub
	cfg  config.AttendanceConfig
	loc  *time.Location

	now   func() time.Time
	runTx txFunc
}

func NewAttendanceService(db *database.DB, repo attendance.Repository, hub *sse.Hub, cfg *config.Config) attendance.Service {
	return &AttendanceServiceImpl{
		repo: repo,
		hub:  hub,
		cfg:  cfg.Attendance,
		loc:  cfg.Location(),
		now:  time.Now,
		runTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
				return fn(postgresql.WithTx(ctx, tx))
			})
		},
	}
}

func employeeIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	return employeeID, nil
}

// localDate resolves "today" in the canonical timezone so the ledger
// key is the same on every replica.
func (a *AttendanceServiceImpl) localDate(t time.Time) string {
	return t.In(a.loc).Format("2006-01-02")
}

func (a *AttendanceServiceImpl) checkGeofence(employeeID string, lat, lng *float64) {
	if lat == nil || lng == nil {
		return
	}
	if a.cfg.OfficeLatitude == 0 && a.cfg.OfficeLongitude == 0 {
		return
	}

	distance := utils.HaversineDistance(*lat, *lng, a.cfg.OfficeLatitude, a.cfg.OfficeLongitude)
	if distance > a.cfg.GeofenceRadiusM {
		slog.Warn("check event recorded outside office geofence",
			"employee_id", employeeID,
			"distance_meters", math.Round(distance),
			"radius_meters", a.cfg.GeofenceRadiusM,
		)
	}
}

func methodFor(lat, lng *float64) attendance.Method {
	if lat != nil && lng != nil {
		return attendance.MethodGPS
	}
	return attendance.MethodManual
}

// CheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := a.now().UTC()
	dateLocal := a.localDate(now)
	method := methodFor(req.Latitude, req.Longitude)

	var result attendance.Record
	err = a.runTx(ctx, func(ctx context.Context) error {
		rec, err := a.repo.GetByEmployeeAndDateForUpdate(ctx, employeeID, dateLocal)
		if err != nil {
			return err
		}

		if rec == nil {
			created, err := a.repo.Create(ctx, attendance.Record{
				EmployeeID:       employeeID,
				WorkDate:         now.In(a.loc),
				Status:           attendance.StatusPresent,
				CheckInAt:        &now,
				CheckInMethod:    &method,
				CheckInLatitude:  req.Latitude,
				CheckInLongitude: req.Longitude,
			})
			if err != nil {
				return err
			}
			result = created
			return nil
		}

		switch rec.Cycle() {
		case attendance.CycleCheckedIn, attendance.CycleOnLunch:
			return attendance.ErrAlreadyCheckedIn
		}

		// A fresh check-in over a completed cycle (or a day-status-only
		// record) starts the cycle over: checkout, lunch and totals are
		// cleared together with the new check-in timestamp.
		rec.Status = attendance.StatusPresent
		rec.CheckInAt = &now
		rec.CheckInMethod = &method
		rec.CheckInLatitude = req.Latitude
		rec.CheckInLongitude = req.Longitude
		rec.CheckOutAt = nil
		rec.CheckOutMethod = nil
		rec.CheckOutLatitude = nil
		rec.CheckOutLongitude = nil
		rec.LunchStartAt = nil
		rec.LunchEndAt = nil
		rec.LunchHours = nil
		rec.TotalHours = nil

		if err := a.repo.Update(ctx, *rec); err != nil {
			return err
		}
		result = *rec
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	a.checkGeofence(employeeID, req.Latitude, req.Longitude)
	a.publishUpdate(employeeID, result)

	return toRecordResponse(result), nil
}

// CheckOut implements attendance.Service.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := a.now().UTC()
	dateLocal := a.localDate(now)
	method := methodFor(req.Latitude, req.Longitude)

	var result attendance.Record
	err = a.runTx(ctx, func(ctx context.Context) error {
		rec, err := a.repo.GetByEmployeeAndDateForUpdate(ctx, employeeID, dateLocal)
		if err != nil {
			return err
		}
		if rec == nil || rec.Cycle() == attendance.CycleNotStarted {
			return attendance.ErrNotCheckedIn
		}

		// A lunch break still open at checkout is closed at the
		// checkout timestamp, so the stored break never dangles.
		if rec.LunchStartAt != nil && rec.LunchEndAt == nil {
			rec.LunchEndAt = &now
		}
		rec.LunchHours = timeclock.BreakHours(rec.LunchStartAt, rec.LunchEndAt)

		// Repeating a checkout overwrites the previous one; total
		// hours are recomputed from the stored timestamps each time.
		rec.CheckOutAt = &now
		rec.CheckOutMethod = &method
		rec.CheckOutLatitude = req.Latitude
		rec.CheckOutLongitude = req.Longitude

		total := timeclock.NetWorkedHours(*rec.CheckInAt, now, rec.LunchStartAt, rec.LunchEndAt)
		rec.TotalHours = &total

		if err := a.repo.Update(ctx, *rec); err != nil {
			return err
		}
		result = *rec
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	a.checkGeofence(employeeID, req.Latitude, req.Longitude)
	a.publishUpdate(employeeID, result)

	return toRecordResponse(result), nil
}

// StartLunchBreak implements attendance.Service.
func (a *AttendanceServiceImpl) StartLunchBreak(ctx context.Context) (attendance.RecordResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := a.now().UTC()
	dateLocal := a.localDate(now)

	var result attendance.Record
	err = a.runTx(ctx, func(ctx context.Context) error {
		rec, err := a.repo.GetByEmployeeAndDateForUpdate(ctx, employeeID, dateLocal)
		if err != nil {
			return err
		}

		switch rec.Cycle() {
		case attendance.CycleNotStarted, attendance.CycleCheckedOut:
			return attendance.ErrNotCheckedIn
		case attendance.CycleOnLunch:
			return attendance.ErrLunchBreakActive
		}
		if rec.LunchStartAt != nil {
			// One break per cycle; a second start is refused rather
			// than silently replacing the recorded one.
			return attendance.ErrLunchBreakActive
		}

		rec.LunchStartAt = &now
		rec.LunchEndAt = nil
		rec.LunchHours = nil

		if err := a.repo.Update(ctx, *rec); err != nil {
			return err
		}
		result = *rec
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	a.publishUpdate(employeeID, result)

	return toRecordResponse(result), nil
}

// EndLunchBreak implements attendance.Service.
func (a *AttendanceServiceImpl) EndLunchBreak(ctx context.Context) (attendance.RecordResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := a.now().UTC()
	dateLocal := a.localDate(now)

	var result attendance.Record
	err = a.runTx(ctx, func(ctx context.Context) error {
		rec, err := a.repo.GetByEmployeeAndDateForUpdate(ctx, employeeID, dateLocal)
		if err != nil {
			return err
		}

		if rec.Cycle() != attendance.CycleOnLunch {
			return attendance.ErrLunchBreakNotActive
		}

		rec.LunchEndAt = &now
		rec.LunchHours = timeclock.BreakHours(rec.LunchStartAt, rec.LunchEndAt)

		if err := a.repo.Update(ctx, *rec); err != nil {
			return err
		}
		result = *rec
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	a.publishUpdate(employeeID, result)

	return toRecordResponse(result), nil
}

// TodayStatus implements attendance.Service.
func (a *AttendanceServiceImpl) TodayStatus(ctx context.Context) (attendance.TodayStatusResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	now := a.now().UTC()
	dateLocal := a.localDate(now)

	rec, err := a.repo.GetByEmployeeAndDate(ctx, employeeID, dateLocal)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	return buildTodayStatus(dateLocal, rec, now), nil
}

func buildTodayStatus(dateLocal string, rec *attendance.Record, now time.Time) attendance.TodayStatusResponse {
	state := rec.Cycle()

	resp := attendance.TodayStatusResponse{
		Date:        dateLocal,
		CycleState:  state.String(),
		CanCheckIn:  state == attendance.CycleNotStarted || state == attendance.CycleCheckedOut,
		CanCheckOut: state == attendance.CycleCheckedIn || state == attendance.CycleOnLunch,
		CanStartLunch: state == attendance.CycleCheckedIn &&
			rec != nil && rec.LunchStartAt == nil,
		CanEndLunch: state == attendance.CycleOnLunch,
	}

	if rec != nil {
		r := toRecordResponse(*rec)
		resp.Record = &r

		if state == attendance.CycleCheckedIn || state == attendance.CycleOnLunch {
			worked := timeclock.NetWorkedHours(*rec.CheckInAt, now, rec.LunchStartAt, rec.LunchEndAt)
			resp.WorkedHoursSoFar = &worked
		} else if rec.TotalHours != nil {
			resp.WorkedHoursSoFar = rec.TotalHours
		}
	}

	return resp
}

// GetMyAttendance implements attendance.Service.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyFilter) (attendance.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	records, total, err := a.repo.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	return buildListResponse(records, total, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.Service. When the repository
// cannot serve the requested order (no index behind the sort key) it
// returns the full filtered set unordered; sorting AND pagination then
// happen here, so ordering holds across pages, at in-memory cost.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	records, total, ordered, err := a.repo.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	if !ordered {
		slog.Warn("sort key has no server-side index, sorting and paginating in memory",
			"sort_by", filter.SortBy, "rows", len(records))
		sortRecords(records, filter.SortBy, filter.SortOrder)
		records = pageOf(records, filter.Page, filter.Limit)
	}

	return buildListResponse(records, total, filter.Page, filter.Limit), nil
}

// pageOf slices one page out of the globally sorted set.
func pageOf(records []attendance.Record, page, limit int) []attendance.Record {
	if limit <= 0 {
		return records
	}
	start := (page - 1) * limit
	if start < 0 || start >= len(records) {
		return nil
	}
	end := start + limit
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

func sortRecords(records []attendance.Record, sortBy, sortOrder string) {
	asc := strings.EqualFold(sortOrder, "asc")

	sort.SliceStable(records, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "employee_name":
			a, b := "", ""
			if records[i].EmployeeName != nil {
				a = *records[i].EmployeeName
			}
			if records[j].EmployeeName != nil {
				b = *records[j].EmployeeName
			}
			less = a < b
		default:
			less = records[i].WorkDate.Before(records[j].WorkDate)
		}
		if asc {
			return less
		}
		return !less
	})
}

func buildListResponse(records []attendance.Record, total int64, page, limit int) attendance.ListResponse {
	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toRecordResponse(rec))
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return attendance.ListResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Records:    responses,
	}
}

func (a *AttendanceServiceImpl) publishUpdate(employeeID string, rec attendance.Record) {
	if a.hub == nil {
		return
	}
	a.hub.Publish(employeeID, sse.Event{
		EmployeeID: employeeID,
		Event:      "attendance_update",
		Data:       toRecordResponse(rec),
	})
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		Date:         rec.WorkDate.Format("2006-01-02"),
		Status:       string(rec.Status),
		CycleState:   rec.Cycle().String(),
		TotalHours:   rec.TotalHours,
		CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    rec.UpdatedAt.Format(time.RFC3339),
	}

	if rec.CheckInAt != nil {
		method := attendance.MethodManual
		if rec.CheckInMethod != nil {
			method = *rec.CheckInMethod
		}
		resp.CheckIn = &attendance.CheckEventResponse{
			Timestamp: rec.CheckInAt.Format(time.RFC3339),
			Method:    string(method),
			Latitude:  rec.CheckInLatitude,
			Longitude: rec.CheckInLongitude,
		}
	}

	if rec.CheckOutAt != nil {
		method := attendance.MethodManual
		if rec.CheckOutMethod != nil {
			method = *rec.CheckOutMethod
		}
		resp.CheckOut = &attendance.CheckEventResponse{
			Timestamp: rec.CheckOutAt.Format(time.RFC3339),
			Method:    string(method),
			Latitude:  rec.CheckOutLatitude,
			Longitude: rec.CheckOutLongitude,
		}
	}

	if rec.LunchStartAt != nil {
		resp.LunchBreak = &attendance.LunchBreakResponse{
			Start:    rec.LunchStartAt.Format(time.RFC3339),
			End:      timePtrToString(rec.LunchEndAt),
			Duration: rec.LunchHours,
		}
	}

	return resp
}
