package response

import (
	"errors"
	"net/http"

	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/auth"
	"github.com/tempohq/attendance-backend-go/internal/domain/document"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/leave"
	"github.com/tempohq/attendance-backend-go/internal/domain/payslip"
	"github.com/tempohq/attendance-backend-go/internal/domain/project"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance ledger errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "Not checked in")
	case errors.Is(err, attendance.ErrLunchBreakActive):
		Conflict(w, "Lunch break already taken or in progress")
	case errors.Is(err, attendance.ErrLunchBreakNotActive):
		Conflict(w, "No lunch break in progress")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Employee directory errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Leave errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "end_date must not be before start_date", nil)
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Leave request belongs to another employee")

	// Payslip errors
	case errors.Is(err, payslip.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payslip.ErrAlreadyGenerated):
		Conflict(w, "Payslip already generated for this period")
	case errors.Is(err, payslip.ErrAlreadyPublished):
		Conflict(w, "Payslip already published")
	case errors.Is(err, payslip.ErrNoRateConfigured):
		BadRequest(w, "Employee has no hourly rate configured", nil)

	// Project errors
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, "Project not found")
	case errors.Is(err, project.ErrAlreadyAssigned):
		Conflict(w, "Employee already assigned to project")
	case errors.Is(err, project.ErrMemberNotFound):
		NotFound(w, "Employee is not a member of this project")
	case errors.Is(err, project.ErrProjectArchived):
		Conflict(w, "Project is archived")
	case errors.Is(err, project.ErrDuplicateProject):
		Conflict(w, "Project name already exists")

	// Document errors
	case errors.Is(err, document.ErrDocumentNotFound):
		NotFound(w, "Document not found")
	case errors.Is(err, document.ErrUnsupportedFileType):
		BadRequest(w, "Unsupported file type", nil)
	case errors.Is(err, document.ErrFileTooLarge):
		BadRequest(w, "File exceeds maximum size", nil)
	case errors.Is(err, document.ErrNotDocumentOwner):
		Forbidden(w, "Document belongs to another employee")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
