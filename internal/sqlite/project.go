package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ardiva/vaulthk/internal/domain/vault"
	"github.com/ardiva/vaulthk/internal/repository"
)

// ProjectRepository implements vault.ProjectRepository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project row with its starting balance
func (r *ProjectRepository) Create(ctx context.Context, proj *vault.Project) error {
	query := `
		INSERT INTO projects (id, name, balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Name,
		proj.Balance,
		proj.CreatedAt,
		proj.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project row by ID (no members or logs attached)
func (r *ProjectRepository) Get(ctx context.Context, id string) (*vault.Project, error) {
	query := `
		SELECT id, name, balance, created_at
		FROM projects
		WHERE id = ?
	`

	var proj vault.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.Name,
		&proj.Balance,
		&proj.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &proj, nil
}

// Delete removes a project. Members and logs cascade at the schema level.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all project rows, oldest first
func (r *ProjectRepository) List(ctx context.Context) ([]vault.Project, error) {
	query := `
		SELECT id, name, balance, created_at
		FROM projects
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []vault.Project
	for rows.Next() {
		var proj vault.Project
		err := rows.Scan(
			&proj.ID,
			&proj.Name,
			&proj.Balance,
			&proj.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}
