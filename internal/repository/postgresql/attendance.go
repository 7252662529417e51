package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.work_date, a.status,
	a.check_in_at, a.check_in_method, a.check_in_latitude, a.check_in_longitude,
	a.check_out_at, a.check_out_method, a.check_out_latitude, a.check_out_longitude,
	a.lunch_start_at, a.lunch_end_at, a.lunch_hours,
	a.total_hours, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row, rec *attendance.Record) error {
	return row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.WorkDate, &rec.Status,
		&rec.CheckInAt, &rec.CheckInMethod, &rec.CheckInLatitude, &rec.CheckInLongitude,
		&rec.CheckOutAt, &rec.CheckOutMethod, &rec.CheckOutLatitude, &rec.CheckOutLongitude,
		&rec.LunchStartAt, &rec.LunchEndAt, &rec.LunchHours,
		&rec.TotalHours, &rec.CreatedAt, &rec.UpdatedAt,
	)
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			employee_id, work_date, status,
			check_in_at, check_in_method, check_in_latitude, check_in_longitude
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.WorkDate,
		rec.Status,
		rec.CheckInAt,
		rec.CheckInMethod,
		rec.CheckInLatitude,
		rec.CheckInLongitude,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The unique (employee_id, work_date) index lost a race to
			// a concurrent check-in.
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// Update implements attendance.Repository.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET status = $2,
			check_in_at = $3, check_in_method = $4,
			check_in_latitude = $5, check_in_longitude = $6,
			check_out_at = $7, check_out_method = $8,
			check_out_latitude = $9, check_out_longitude = $10,
			lunch_start_at = $11, lunch_end_at = $12, lunch_hours = $13,
			total_hours = $14,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		rec.ID,
		rec.Status,
		rec.CheckInAt, rec.CheckInMethod,
		rec.CheckInLatitude, rec.CheckInLongitude,
		rec.CheckOutAt, rec.CheckOutMethod,
		rec.CheckOutLatitude, rec.CheckOutLongitude,
		rec.LunchStartAt, rec.LunchEndAt, rec.LunchHours,
		rec.TotalHours,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID, dateLocal string) (*attendance.Record, error) {
	return a.getByKey(ctx, employeeID, dateLocal, false)
}

// GetByEmployeeAndDateForUpdate implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID, dateLocal string) (*attendance.Record, error) {
	return a.getByKey(ctx, employeeID, dateLocal, true)
}

func (a *attendanceRepository) getByKey(ctx context.Context, employeeID, dateLocal string, forUpdate bool) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.employee_id = $1
		  AND a.work_date = $2
		LIMIT 1`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	var rec attendance.Record
	err := scanAttendance(q.QueryRow(ctx, query, employeeID, dateLocal), &rec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return &rec, nil
}

// ListByEmployee implements attendance.Repository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"a.employee_id = $1"}
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("a.work_date = $%d", argIdx))
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.work_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.work_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records a " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	orderBy := sortColumn(filter.SortBy)
	direction := sortDirection(filter.SortOrder)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance_records a
		%s
		ORDER BY %s %s, a.id %s
		LIMIT $%d OFFSET $%d`,
		attendanceColumns, where, orderBy, direction, direction, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := scanAttendance(rows, &rec); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read attendance records: %w", err)
	}

	return records, total, nil
}

// List implements attendance.Repository. Sorting by employee_name has
// no server-side index behind the join, so those requests return the
// FULL filtered set with ordered=false and the service sorts and
// paginates in memory; slicing a page here first would break global
// ordering across pages.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, bool, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("a.work_date = $%d", argIdx))
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.work_date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.work_date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records a " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, false, fmt.Errorf("failed to count attendance records: %w", err)
	}

	ordered := filter.SortBy != "employee_name"
	direction := sortDirection(filter.SortOrder)

	query := fmt.Sprintf(`
		SELECT %s, e.full_name, e.email
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		%s`,
		attendanceColumns, where)

	if ordered {
		query += fmt.Sprintf(`
		ORDER BY %s %s, a.id %s
		LIMIT $%d OFFSET $%d`, sortColumn(filter.SortBy), direction, direction, argIdx, argIdx+1)
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.WorkDate, &rec.Status,
			&rec.CheckInAt, &rec.CheckInMethod, &rec.CheckInLatitude, &rec.CheckInLongitude,
			&rec.CheckOutAt, &rec.CheckOutMethod, &rec.CheckOutLatitude, &rec.CheckOutLongitude,
			&rec.LunchStartAt, &rec.LunchEndAt, &rec.LunchHours,
			&rec.TotalHours, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName, &rec.EmployeeEmail,
		)
		if err != nil {
			return nil, 0, false, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, false, fmt.Errorf("failed to read attendance records: %w", err)
	}

	return records, total, ordered, nil
}

// ListByEmployeeRange implements attendance.Repository.
func (a *attendanceRepository) ListByEmployeeRange(ctx context.Context, employeeID, startDate, endDate string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.employee_id = $1
		  AND a.work_date >= $2
		  AND a.work_date <= $3
		ORDER BY a.work_date ASC`

	rows, err := q.Query(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := scanAttendance(rows, &rec); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance range: %w", err)
	}

	return records, nil
}

// ListOpenLunchBreaks implements attendance.Repository.
func (a *attendanceRepository) ListOpenLunchBreaks(ctx context.Context, cutoff time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.lunch_start_at IS NOT NULL
		  AND a.lunch_end_at IS NULL
		  AND a.check_out_at IS NULL
		  AND a.lunch_start_at < $1
		ORDER BY a.lunch_start_at ASC`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list open lunch breaks: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := scanAttendance(rows, &rec); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read open lunch breaks: %w", err)
	}

	return records, nil
}

// SetDayStatus implements attendance.Repository.
func (a *attendanceRepository) SetDayStatus(ctx context.Context, employeeID, dateLocal string, status attendance.Status) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (employee_id, work_date, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, work_date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, employeeID, dateLocal, status); err != nil {
		return fmt.Errorf("failed to set day status: %w", err)
	}

	return nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "check_in_time":
		return "a.check_in_at"
	case "check_out_time":
		return "a.check_out_at"
	case "status":
		return "a.status"
	default:
		return "a.work_date"
	}
}

func sortDirection(sortOrder string) string {
	if strings.EqualFold(sortOrder, "asc") {
		return "ASC"
	}
	return "DESC"
}
