package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"

	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/leave"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
	"github.com/tempohq/attendance-backend-go/internal/pkg/email"
	"github.com/tempohq/attendance-backend-go/internal/repository/postgresql"
)

type LeaveServiceImpl struct {
	db             *database.DB
	repo           leave.Repository
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	emailService   email.EmailService
}

func NewLeaveService(
	db *database.DB,
	repo leave.Repository,
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	emailService email.EmailService,
) leave.Service {
	return &LeaveServiceImpl{
		db:             db,
		repo:           repo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		emailService:   emailService,
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

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return userID, nil
}

// Submit implements leave.Service.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	if end.Before(start) {
		return leave.RequestResponse{}, leave.ErrInvalidDateRange
	}

	totalDays := int(end.Sub(start).Hours()/24) + 1

	created, err := s.repo.Create(ctx, leave.Request{
		EmployeeID: employeeID,
		Type:       leave.Type(req.Type),
		StartDate:  start,
		EndDate:    end,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     leave.StatusWaitingApproval,
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	return toRequestResponse(created), nil
}

// Approve implements leave.Service. The status flip and the ledger
// day-status writes commit together or not at all.
func (s *LeaveServiceImpl) Approve(ctx context.Context, requestID string) (leave.RequestResponse, error) {
	approverID, err := userIDFromContext(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	var approved leave.Request
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := postgresql.WithTx(ctx, tx)

		req, err := s.repo.GetByID(txCtx, requestID)
		if err != nil {
			return err
		}
		if req.Status != leave.StatusWaitingApproval {
			return leave.ErrAlreadyProcessed
		}

		now := time.Now().UTC()
		req.Status = leave.StatusApproved
		req.ApprovedBy = &approverID
		req.ApprovedAt = &now

		if err := s.repo.Update(txCtx, req); err != nil {
			return err
		}

		for d := req.StartDate; !d.After(req.EndDate); d = d.AddDate(0, 0, 1) {
			dateLocal := d.Format("2006-01-02")
			if err := s.attendanceRepo.SetDayStatus(txCtx, req.EmployeeID, dateLocal, attendance.StatusLeave); err != nil {
				return fmt.Errorf("failed to mark leave day %s: %w", dateLocal, err)
			}
		}

		approved = req
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.notifyDecision(approved)

	return toRequestResponse(approved), nil
}

// Reject implements leave.Service.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	approverID, err := userIDFromContext(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	var rejected leave.Request
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := postgresql.WithTx(ctx, tx)

		existing, err := s.repo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if existing.Status != leave.StatusWaitingApproval {
			return leave.ErrAlreadyProcessed
		}

		now := time.Now().UTC()
		existing.Status = leave.StatusRejected
		existing.ApprovedBy = &approverID
		existing.ApprovedAt = &now
		existing.RejectionReason = &req.Reason

		if err := s.repo.Update(txCtx, existing); err != nil {
			return err
		}

		rejected = existing
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.notifyDecision(rejected)

	return toRequestResponse(rejected), nil
}

// Cancel implements leave.Service.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, requestID string) (leave.RequestResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if req.EmployeeID != employeeID {
		return leave.RequestResponse{}, leave.ErrNotRequestOwner
	}
	if req.Status != leave.StatusWaitingApproval {
		return leave.RequestResponse{}, leave.ErrAlreadyProcessed
	}

	req.Status = leave.StatusCancelled
	if err := s.repo.Update(ctx, req); err != nil {
		return leave.RequestResponse{}, err
	}

	return toRequestResponse(req), nil
}

// ListMy implements leave.Service.
func (s *LeaveServiceImpl) ListMy(ctx context.Context) (leave.ListRequestsResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return leave.ListRequestsResponse{}, err
	}

	requests, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return leave.ListRequestsResponse{}, err
	}

	return buildListResponse(requests, int64(len(requests))), nil
}

// List implements leave.Service.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.ListFilter) (leave.ListRequestsResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListRequestsResponse{}, err
	}

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return leave.ListRequestsResponse{}, err
	}

	return buildListResponse(requests, total), nil
}

// notifyDecision emails the employee about the decision. Email failure
// never rolls back the decision itself.
func (s *LeaveServiceImpl) notifyDecision(req leave.Request) {
	if s.emailService == nil {
		return
	}

	emp, err := s.employeeRepo.GetByID(context.Background(), req.EmployeeID)
	if err != nil {
		slog.Error("failed to load employee for leave notification",
			"employee_id", req.EmployeeID, "error", err)
		return
	}

	go func() {
		err := s.emailService.SendLeaveDecision(
			emp.Email,
			emp.FullName,
			string(req.Type),
			req.StartDate.Format("2006-01-02"),
			req.EndDate.Format("2006-01-02"),
			string(req.Status),
			req.RejectionReason,
		)
		if err != nil {
			slog.Error("failed to send leave decision email",
				"employee_id", req.EmployeeID, "error", err)
		}
	}()
}

func buildListResponse(requests []leave.Request, total int64) leave.ListRequestsResponse {
	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, toRequestResponse(req))
	}
	return leave.ListRequestsResponse{
		TotalCount: total,
		Requests:   responses,
	}
}

func toRequestResponse(req leave.Request) leave.RequestResponse {
	return leave.RequestResponse{
		ID:              req.ID,
		EmployeeID:      req.EmployeeID,
		EmployeeName:    req.EmployeeName,
		Type:            string(req.Type),
		StartDate:       req.StartDate.Format("2006-01-02"),
		EndDate:         req.EndDate.Format("2006-01-02"),
		TotalDays:       req.TotalDays,
		Reason:          req.Reason,
		AttachmentURL:   req.AttachmentURL,
		Status:          string(req.Status),
		RejectionReason: req.RejectionReason,
		SubmittedAt:     req.SubmittedAt.Format(time.RFC3339),
	}
}
