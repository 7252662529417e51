package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tempohq/attendance-backend-go/internal/domain/project"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
)

type projectRepository struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) project.Repository {
	return &projectRepository{db: db}
}

const projectColumns = `
	p.id, p.name, p.description, p.status, p.created_at, p.updated_at`

func scanProject(row pgx.Row, p *project.Project) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt)
}

// Create implements project.Repository.
func (r *projectRepository) Create(ctx context.Context, p project.Project) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO projects (name, description, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, p.Name, p.Description, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return project.Project{}, project.ErrDuplicateProject
		}
		return project.Project{}, fmt.Errorf("failed to create project: %w", err)
	}

	return p, nil
}

// GetByID implements project.Repository.
func (r *projectRepository) GetByID(ctx context.Context, id string) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + projectColumns + `
		FROM projects p
		WHERE p.id = $1
		LIMIT 1`

	var p project.Project
	err := scanProject(q.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to get project: %w", err)
	}

	return p, nil
}

// Update implements project.Repository.
func (r *projectRepository) Update(ctx context.Context, p project.Project) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE projects
		SET name = $2, description = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, p.ID, p.Name, p.Description, p.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return project.ErrDuplicateProject
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}

	return nil
}

// List implements project.Repository.
func (r *projectRepository) List(ctx context.Context) ([]project.Project, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM projects").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	query := `
		SELECT ` + projectColumns + `
		FROM projects p
		ORDER BY p.name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		var p project.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read projects: %w", err)
	}

	return projects, total, nil
}

// AddMember implements project.Repository.
func (r *projectRepository) AddMember(ctx context.Context, m project.Member) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO project_members (project_id, employee_id, role)
		VALUES ($1, $2, $3)
	`

	if _, err := q.Exec(ctx, query, m.ProjectID, m.EmployeeID, m.Role); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return project.ErrAlreadyAssigned
		}
		return fmt.Errorf("failed to add project member: %w", err)
	}

	return nil
}

// RemoveMember implements project.Repository.
func (r *projectRepository) RemoveMember(ctx context.Context, projectID, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM project_members
		WHERE project_id = $1
		  AND employee_id = $2
	`

	tag, err := q.Exec(ctx, query, projectID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to remove project member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrMemberNotFound
	}

	return nil
}

// ListMembers implements project.Repository.
func (r *projectRepository) ListMembers(ctx context.Context, projectID string) ([]project.Member, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT m.project_id, m.employee_id, m.role, m.assigned_at,
			   e.full_name, e.email
		FROM project_members m
		JOIN employees e ON e.id = m.employee_id
		WHERE m.project_id = $1
		ORDER BY e.full_name ASC`

	rows, err := q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	defer rows.Close()

	var members []project.Member
	for rows.Next() {
		var m project.Member
		err := rows.Scan(
			&m.ProjectID, &m.EmployeeID, &m.Role, &m.AssignedAt,
			&m.EmployeeName, &m.EmployeeEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read project members: %w", err)
	}

	return members, nil
}

// ListByEmployee implements project.Repository.
func (r *projectRepository) ListByEmployee(ctx context.Context, employeeID string) ([]project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + projectColumns + `
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.employee_id = $1
		ORDER BY p.name ASC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		var p project.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employee projects: %w", err)
	}

	return projects, nil
}
