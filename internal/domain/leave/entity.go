package leave

import "time"

type Type string

const (
	TypeAnnual Type = "annual"
	TypeSick   Type = "sick"
	TypeUnpaid Type = "unpaid"
	TypeOther  Type = "other"
)

type RequestStatus string

const (
	StatusWaitingApproval RequestStatus = "waiting_approval"
	StatusApproved        RequestStatus = "approved"
	StatusRejected        RequestStatus = "rejected"
	StatusCancelled       RequestStatus = "cancelled"
)

// Request is a leave request over an inclusive date range. Approval
// writes status "leave" onto each covered day of the attendance
// ledger; the ledger itself never mutates leave requests.
type Request struct {
	ID         string
	EmployeeID string
	Type       Type

	StartDate time.Time
	EndDate   time.Time
	TotalDays int

	Reason        string
	AttachmentURL *string

	Status          RequestStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined for responses
	EmployeeName  *string
	EmployeeEmail *string
}
