package payslip

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"

	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/payslip"
	"github.com/tempohq/attendance-backend-go/internal/pkg/email"
)

type PayslipServiceImpl struct {
	repo           payslip.Repository
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	emailService   email.EmailService
}

func NewPayslipService(
	repo payslip.Repository,
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	emailService email.EmailService,
) payslip.Service {
	return &PayslipServiceImpl{
		repo:           repo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		emailService:   emailService,
	}
}

// Generate implements payslip.Service. Worked hours come from the
// attendance ledger's stored totals; money stays decimal end to end.
func (s *PayslipServiceImpl) Generate(ctx context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payslip.PayslipResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	if emp.HourlyRate.IsZero() {
		return payslip.PayslipResponse{}, payslip.ErrNoRateConfigured
	}

	period, err := time.Parse("2006-01", req.Period)
	if err != nil {
		return payslip.PayslipResponse{}, fmt.Errorf("invalid period: %w", err)
	}

	existing, err := s.repo.GetByEmployeeAndPeriod(ctx, req.EmployeeID, period)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	if existing != nil {
		return payslip.PayslipResponse{}, payslip.ErrAlreadyGenerated
	}

	startDate := period.Format("2006-01-02")
	endDate := period.AddDate(0, 1, -1).Format("2006-01-02")

	records, err := s.attendanceRepo.ListByEmployeeRange(ctx, req.EmployeeID, startDate, endDate)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	workedHours := decimal.Zero
	for _, rec := range records {
		if rec.TotalHours != nil {
			workedHours = workedHours.Add(decimal.NewFromFloat(*rec.TotalHours))
		}
	}

	allowances := decimal.Zero
	if req.Allowances != "" {
		allowances, err = decimal.NewFromString(req.Allowances)
		if err != nil {
			return payslip.PayslipResponse{}, fmt.Errorf("invalid allowances: %w", err)
		}
	}
	deductions := decimal.Zero
	if req.Deductions != "" {
		deductions, err = decimal.NewFromString(req.Deductions)
		if err != nil {
			return payslip.PayslipResponse{}, fmt.Errorf("invalid deductions: %w", err)
		}
	}

	basePay := workedHours.Mul(emp.HourlyRate).Round(2)
	netPay := basePay.Add(allowances).Sub(deductions).Round(2)

	created, err := s.repo.Create(ctx, payslip.Payslip{
		EmployeeID:  req.EmployeeID,
		Period:      period,
		WorkedHours: workedHours.Round(2),
		HourlyRate:  emp.HourlyRate,
		BasePay:     basePay,
		Allowances:  allowances,
		Deductions:  deductions,
		NetPay:      netPay,
		Status:      payslip.StatusDraft,
	})
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	created.EmployeeName = emp.FullName
	created.EmployeeEmail = emp.Email

	return toPayslipResponse(created), nil
}

// Publish implements payslip.Service.
func (s *PayslipServiceImpl) Publish(ctx context.Context, id string) (payslip.PayslipResponse, error) {
	ps, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	if ps.Status == payslip.StatusPublished {
		return payslip.PayslipResponse{}, payslip.ErrAlreadyPublished
	}

	now := time.Now().UTC()
	ps.Status = payslip.StatusPublished
	ps.PublishedAt = &now

	if err := s.repo.Update(ctx, ps); err != nil {
		return payslip.PayslipResponse{}, err
	}

	if s.emailService != nil && ps.EmployeeEmail != "" {
		go func() {
			err := s.emailService.SendPayslipReady(
				ps.EmployeeEmail,
				ps.EmployeeName,
				ps.Period.Format("January 2006"),
				ps.NetPay.StringFixed(2),
			)
			if err != nil {
				slog.Error("failed to send payslip email",
					"payslip_id", ps.ID, "error", err)
			}
		}()
	}

	return toPayslipResponse(ps), nil
}

// Get implements payslip.Service. Employees may read their own
// payslips; admins may read any.
func (s *PayslipServiceImpl) Get(ctx context.Context, id string) (payslip.PayslipResponse, error) {
	ps, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return payslip.PayslipResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	role, _ := claims["role"].(string)
	employeeID, _ := claims["employee_id"].(string)

	if role != "admin" && employeeID != ps.EmployeeID {
		return payslip.PayslipResponse{}, payslip.ErrPayslipNotFound
	}

	return toPayslipResponse(ps), nil
}

// ListMy implements payslip.Service.
func (s *PayslipServiceImpl) ListMy(ctx context.Context) (payslip.ListPayslipsResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return payslip.ListPayslipsResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return payslip.ListPayslipsResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	payslips, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return payslip.ListPayslipsResponse{}, err
	}

	responses := make([]payslip.PayslipResponse, 0, len(payslips))
	for _, ps := range payslips {
		responses = append(responses, toPayslipResponse(ps))
	}

	return payslip.ListPayslipsResponse{
		TotalCount: int64(len(responses)),
		Page:       1,
		Limit:      len(responses),
		Payslips:   responses,
	}, nil
}

// List implements payslip.Service.
func (s *PayslipServiceImpl) List(ctx context.Context, filter payslip.ListFilter) (payslip.ListPayslipsResponse, error) {
	if err := filter.Validate(); err != nil {
		return payslip.ListPayslipsResponse{}, err
	}

	payslips, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return payslip.ListPayslipsResponse{}, err
	}

	responses := make([]payslip.PayslipResponse, 0, len(payslips))
	for _, ps := range payslips {
		responses = append(responses, toPayslipResponse(ps))
	}

	return payslip.ListPayslipsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Payslips:   responses,
	}, nil
}

func toPayslipResponse(ps payslip.Payslip) payslip.PayslipResponse {
	resp := payslip.PayslipResponse{
		ID:          ps.ID,
		EmployeeID:  ps.EmployeeID,
		Period:      ps.Period.Format("2006-01"),
		WorkedHours: ps.WorkedHours.StringFixed(2),
		HourlyRate:  ps.HourlyRate.StringFixed(2),
		BasePay:     ps.BasePay.StringFixed(2),
		Allowances:  ps.Allowances.StringFixed(2),
		Deductions:  ps.Deductions.StringFixed(2),
		NetPay:      ps.NetPay.StringFixed(2),
		Status:      string(ps.Status),
		CreatedAt:   ps.CreatedAt.Format(time.RFC3339),
	}

	if ps.EmployeeName != "" {
		resp.EmployeeName = ps.EmployeeName
	}
	if ps.EmployeeEmail != "" {
		resp.EmployeeEmail = ps.EmployeeEmail
	}
	if ps.PublishedAt != nil {
		published := ps.PublishedAt.Format(time.RFC3339)
		resp.PublishedAt = &published
	}

	return resp
}
