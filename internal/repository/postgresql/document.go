package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tempohq/attendance-backend-go/internal/domain/document"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
)

type documentRepository struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) document.Repository {
	return &documentRepository{db: db}
}

const documentColumns = `
	id, employee_id, name, category, content_type, size_bytes, path,
	uploaded_by, created_at`

func scanDocument(row pgx.Row, d *document.Document) error {
	return row.Scan(
		&d.ID, &d.EmployeeID, &d.Name, &d.Category, &d.ContentType,
		&d.SizeBytes, &d.Path, &d.UploadedBy, &d.CreatedAt,
	)
}

// Create implements document.Repository.
func (r *documentRepository) Create(ctx context.Context, d document.Document) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO documents (
			employee_id, name, category, content_type, size_bytes, path, uploaded_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		d.EmployeeID, d.Name, d.Category, d.ContentType, d.SizeBytes, d.Path, d.UploadedBy,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	return d, nil
}

// GetByID implements document.Repository.
func (r *documentRepository) GetByID(ctx context.Context, id string) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1
		LIMIT 1`

	var d document.Document
	err := scanDocument(q.QueryRow(ctx, query, id), &d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrDocumentNotFound
		}
		return document.Document{}, fmt.Errorf("failed to get document: %w", err)
	}

	return d, nil
}

// Delete implements document.Repository.
func (r *documentRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDocumentNotFound
	}

	return nil
}

// ListByEmployee implements document.Repository.
func (r *documentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]document.Document, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := "SELECT COUNT(*) FROM documents WHERE employee_id = $1"
	if err := q.QueryRow(ctx, countQuery, employeeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE employee_id = $1
		ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var documents []document.Document
	for rows.Next() {
		var d document.Document
		if err := scanDocument(rows, &d); err != nil {
			return nil, 0, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read documents: %w", err)
	}

	return documents, total, nil
}
