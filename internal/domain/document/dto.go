package document

import (
	"io"

	"github.com/tempohq/attendance-backend-go/internal/pkg/validator"
)

type UploadRequest struct {
	EmployeeID  string
	Name        string
	Category    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

func (r *UploadRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if !validator.IsInSlice(r.Category, []string{"contract", "identity", "certificate", "other"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category must be one of: contract, identity, certificate, other",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DocumentResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	CreatedAt   string `json:"created_at"`
}

type ListDocumentsResponse struct {
	TotalCount int64              `json:"total_count"`
	Documents  []DocumentResponse `json:"documents"`
}

// DownloadResult carries the stored bytes back to the handler.
type DownloadResult struct {
	Name        string
	ContentType string
	Body        io.ReadCloser
}
