package project

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/project"
)

type ProjectServiceImpl struct {
	repo         project.Repository
	employeeRepo employee.Repository
}

func NewProjectService(repo project.Repository, employeeRepo employee.Repository) project.Service {
	return &ProjectServiceImpl{
		repo:         repo,
		employeeRepo: employeeRepo,
	}
}

// Create implements project.Service.
func (s *ProjectServiceImpl) Create(ctx context.Context, req project.CreateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}

	created, err := s.repo.Create(ctx, project.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      project.StatusActive,
	})
	if err != nil {
		return project.ProjectResponse{}, err
	}

	return toProjectResponse(created, nil), nil
}

// Get implements project.Service. Includes the member roster.
func (s *ProjectServiceImpl) Get(ctx context.Context, id string) (project.ProjectResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	members, err := s.repo.ListMembers(ctx, id)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	return toProjectResponse(p, members), nil
}

// Update implements project.Service.
func (s *ProjectServiceImpl) Update(ctx context.Context, req project.UpdateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}

	p, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Status != nil {
		p.Status = project.Status(*req.Status)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return project.ProjectResponse{}, err
	}

	return toProjectResponse(p, nil), nil
}

// List implements project.Service.
func (s *ProjectServiceImpl) List(ctx context.Context) (project.ListProjectsResponse, error) {
	projects, total, err := s.repo.List(ctx)
	if err != nil {
		return project.ListProjectsResponse{}, err
	}
	return buildListResponse(projects, total), nil
}

// AssignMember implements project.Service.
func (s *ProjectServiceImpl) AssignMember(ctx context.Context, req project.AssignMemberRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	p, err := s.repo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return err
	}
	if p.Status == project.StatusArchived {
		return project.ErrProjectArchived
	}

	// Verifies the employee exists before writing the link.
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return err
	}

	return s.repo.AddMember(ctx, project.Member{
		ProjectID:  req.ProjectID,
		EmployeeID: req.EmployeeID,
		Role:       req.Role,
	})
}

// UnassignMember implements project.Service.
func (s *ProjectServiceImpl) UnassignMember(ctx context.Context, projectID, employeeID string) error {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, projectID, employeeID)
}

// ListMine implements project.Service.
func (s *ProjectServiceImpl) ListMine(ctx context.Context) (project.ListProjectsResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return project.ListProjectsResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return project.ListProjectsResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	projects, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return project.ListProjectsResponse{}, err
	}

	return buildListResponse(projects, int64(len(projects))), nil
}

func buildListResponse(projects []project.Project, total int64) project.ListProjectsResponse {
	responses := make([]project.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, toProjectResponse(p, nil))
	}
	return project.ListProjectsResponse{
		TotalCount: total,
		Projects:   responses,
	}
}

func toProjectResponse(p project.Project, members []project.Member) project.ProjectResponse {
	resp := project.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}

	for _, m := range members {
		resp.Members = append(resp.Members, project.MemberResponse{
			EmployeeID:    m.EmployeeID,
			EmployeeName:  m.EmployeeName,
			EmployeeEmail: m.EmployeeEmail,
			Role:          m.Role,
			AssignedAt:    m.AssignedAt.Format(time.RFC3339),
		})
	}

	return resp
}
