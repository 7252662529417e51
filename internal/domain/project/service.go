package project

import "context"

type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (ProjectResponse, error)
	Get(ctx context.Context, id string) (ProjectResponse, error)
	Update(ctx context.Context, req UpdateProjectRequest) (ProjectResponse, error)
	List(ctx context.Context) (ListProjectsResponse, error)

	AssignMember(ctx context.Context, req AssignMemberRequest) error
	UnassignMember(ctx context.Context, projectID, employeeID string) error

	// ListMine lists projects the authenticated employee belongs to.
	ListMine(ctx context.Context) (ListProjectsResponse, error)
}
