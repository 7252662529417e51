package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tempohq/attendance-backend-go/internal/domain/payslip"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
)

type payslipRepository struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payslip.Repository {
	return &payslipRepository{db: db}
}

const payslipColumns = `
	p.id, p.employee_id, p.period, p.worked_hours, p.hourly_rate,
	p.base_pay, p.allowances, p.deductions, p.net_pay,
	p.status, p.published_at, p.created_at, p.updated_at`

func scanPayslip(row pgx.Row, ps *payslip.Payslip) error {
	return row.Scan(
		&ps.ID, &ps.EmployeeID, &ps.Period, &ps.WorkedHours, &ps.HourlyRate,
		&ps.BasePay, &ps.Allowances, &ps.Deductions, &ps.NetPay,
		&ps.Status, &ps.PublishedAt, &ps.CreatedAt, &ps.UpdatedAt,
	)
}

// Create implements payslip.Repository.
func (r *payslipRepository) Create(ctx context.Context, ps payslip.Payslip) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payslips (
			employee_id, period, worked_hours, hourly_rate,
			base_pay, allowances, deductions, net_pay, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ps.EmployeeID, ps.Period, ps.WorkedHours, ps.HourlyRate,
		ps.BasePay, ps.Allowances, ps.Deductions, ps.NetPay, ps.Status,
	).Scan(&ps.ID, &ps.CreatedAt, &ps.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payslip.Payslip{}, payslip.ErrAlreadyGenerated
		}
		return payslip.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}

	return ps, nil
}

// GetByID implements payslip.Repository.
func (r *payslipRepository) GetByID(ctx context.Context, id string) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `, e.full_name, e.email
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1
		LIMIT 1`

	var ps payslip.Payslip
	err := q.QueryRow(ctx, query, id).Scan(
		&ps.ID, &ps.EmployeeID, &ps.Period, &ps.WorkedHours, &ps.HourlyRate,
		&ps.BasePay, &ps.Allowances, &ps.Deductions, &ps.NetPay,
		&ps.Status, &ps.PublishedAt, &ps.CreatedAt, &ps.UpdatedAt,
		&ps.EmployeeName, &ps.EmployeeEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Payslip{}, payslip.ErrPayslipNotFound
		}
		return payslip.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	return ps, nil
}

// GetByEmployeeAndPeriod implements payslip.Repository.
func (r *payslipRepository) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, period time.Time) (*payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		WHERE p.employee_id = $1
		  AND p.period = $2
		LIMIT 1`

	var ps payslip.Payslip
	err := scanPayslip(q.QueryRow(ctx, query, employeeID, period), &ps)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payslip: %w", err)
	}

	return &ps, nil
}

// Update implements payslip.Repository.
func (r *payslipRepository) Update(ctx context.Context, ps payslip.Payslip) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payslips
		SET worked_hours = $2, hourly_rate = $3, base_pay = $4,
			allowances = $5, deductions = $6, net_pay = $7,
			status = $8, published_at = $9, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		ps.ID, ps.WorkedHours, ps.HourlyRate, ps.BasePay,
		ps.Allowances, ps.Deductions, ps.NetPay,
		ps.Status, ps.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payslip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payslip.ErrPayslipNotFound
	}

	return nil
}

// ListByEmployee implements payslip.Repository.
func (r *payslipRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		WHERE p.employee_id = $1
		ORDER BY p.period DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payslip.Payslip
	for rows.Next() {
		var ps payslip.Payslip
		if err := scanPayslip(rows, &ps); err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payslips: %w", err)
	}

	return payslips, nil
}

// List implements payslip.Repository.
func (r *payslipRepository) List(ctx context.Context, filter payslip.ListFilter) ([]payslip.Payslip, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.Period != "" {
		conditions = append(conditions, fmt.Sprintf("p.period = $%d", argIdx))
		args = append(args, filter.Period+"-01")
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM payslips p " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payslips: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, e.full_name, e.email
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		%s
		ORDER BY p.period DESC, e.full_name ASC
		LIMIT $%d OFFSET $%d`, payslipColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payslip.Payslip
	for rows.Next() {
		var ps payslip.Payslip
		err := rows.Scan(
			&ps.ID, &ps.EmployeeID, &ps.Period, &ps.WorkedHours, &ps.HourlyRate,
			&ps.BasePay, &ps.Allowances, &ps.Deductions, &ps.NetPay,
			&ps.Status, &ps.PublishedAt, &ps.CreatedAt, &ps.UpdatedAt,
			&ps.EmployeeName, &ps.EmployeeEmail,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read payslips: %w", err)
	}

	return payslips, total, nil
}
