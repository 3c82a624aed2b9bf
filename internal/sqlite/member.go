package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ardiva/vaulthk/internal/domain/vault"
	"github.com/ardiva/vaulthk/internal/repository"
)

// MemberRepository implements vault.MemberRepository for SQLite
type MemberRepository struct {
	db *DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create registers a member row
func (r *MemberRepository) Create(ctx context.Context, m *vault.Member) error {
	query := `
		INSERT INTO members (id, project_id, name, role, total_spent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.ProjectID,
		m.Name,
		m.Role,
		m.TotalSpent,
		m.CreatedAt,
		m.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

// Get retrieves a member by ID
func (r *MemberRepository) Get(ctx context.Context, id string) (*vault.Member, error) {
	query := `
		SELECT id, project_id, name, role, total_spent, created_at
		FROM members
		WHERE id = ?
	`

	var m vault.Member
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID,
		&m.ProjectID,
		&m.Name,
		&m.Role,
		&m.TotalSpent,
		&m.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return &m, nil
}

// ListByProject returns a project's roster, oldest registration first
func (r *MemberRepository) ListByProject(ctx context.Context, projectID string) ([]vault.Member, error) {
	query := `
		SELECT id, project_id, name, role, total_spent, created_at
		FROM members
		WHERE project_id = ?
		ORDER BY created_at ASC
	`
	return r.scanMembers(r.db.QueryContext(ctx, query, projectID))
}

// ListAll returns every member row across projects
func (r *MemberRepository) ListAll(ctx context.Context) ([]vault.Member, error) {
	query := `
		SELECT id, project_id, name, role, total_spent, created_at
		FROM members
		ORDER BY created_at ASC
	`
	return r.scanMembers(r.db.QueryContext(ctx, query))
}

func (r *MemberRepository) scanMembers(rows *sql.Rows, err error) ([]vault.Member, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []vault.Member
	for rows.Next() {
		var m vault.Member
		err := rows.Scan(
			&m.ID,
			&m.ProjectID,
			&m.Name,
			&m.Role,
			&m.TotalSpent,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}
