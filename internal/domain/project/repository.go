package project

import "context"

type Repository interface {
	Create(ctx context.Context, p Project) (Project, error)
	GetByID(ctx context.Context, id string) (Project, error)
	Update(ctx context.Context, p Project) error
	List(ctx context.Context) ([]Project, int64, error)

	// AddMember maps a unique (project_id, employee_id) violation to
	// ErrAlreadyAssigned.
	AddMember(ctx context.Context, m Member) error
	RemoveMember(ctx context.Context, projectID, employeeID string) error
	ListMembers(ctx context.Context, projectID string) ([]Member, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Project, error)
}
