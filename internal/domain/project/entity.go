package project

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

type Project struct {
	ID          string
	Name        string
	Description *string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Member links an employee to a project.
type Member struct {
	ProjectID  string
	EmployeeID string
	Role       *string
	AssignedAt time.Time

	EmployeeName  string
	EmployeeEmail string
}
