package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// ProjectRepo handles all project-related database operations.
type ProjectRepo struct {
	db DBTX
}

// CreateProject inserts a project and fills in its ID and timestamps
func (r *ProjectRepo) CreateProject(ctx context.Context, project *models.Project) error {
	now := nowUTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		project.Name, project.Description, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project '%s': %w", project.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get project ID after insert: %w", err)
	}
	project.ID = types.ProjectID(id)
	return nil
}

// GetProjectByID retrieves a project by its ID
func (r *ProjectRepo) GetProjectByID(ctx context.Context, id types.ProjectID) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM projects WHERE id = ?`,
		id.ToInt(),
	)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "project", id.ToInt())
	}
	return p, nil
}

// ListProjects retrieves all projects ordered by id
func (r *ProjectRepo) ListProjects(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM projects ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func scanProject(s rowScanner) (*models.Project, error) {
	var (
		p           models.Project
		id          int
		description sql.NullString
	)
	if err := s.Scan(&id, &p.Name, &description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = types.ProjectID(id)
	p.Description = nullStringToString(description)
	return &p, nil
}
