package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ardiva/vaulthk/internal/domain/vault"
	"github.com/ardiva/vaulthk/internal/repository"
)

// LogRepository implements vault.LogRepository for SQLite. It is read-only:
// log rows are written and deleted exclusively by the LedgerStore
// transactions.
type LogRepository struct {
	db *DB
}

// NewLogRepository creates a new LogRepository
func NewLogRepository(db *DB) *LogRepository {
	return &LogRepository{db: db}
}

// Get retrieves a log by ID under a project
func (r *LogRepository) Get(ctx context.Context, projectID, id string) (*vault.Log, error) {
	query := `
		SELECT id, project_id, member_id, timestamp, type, context, value, participant_count
		FROM logs
		WHERE id = ? AND project_id = ?
	`

	entry, err := scanLog(r.db.QueryRowContext(ctx, query, id, projectID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}

	return entry, nil
}

// ListByProject returns a project's logs, newest first
func (r *LogRepository) ListByProject(ctx context.Context, projectID string) ([]vault.Log, error) {
	query := `
		SELECT id, project_id, member_id, timestamp, type, context, value, participant_count
		FROM logs
		WHERE project_id = ?
		ORDER BY timestamp DESC
	`
	return r.scanLogs(r.db.QueryContext(ctx, query, projectID))
}

// ListAll returns every log row across projects, newest first
func (r *LogRepository) ListAll(ctx context.Context) ([]vault.Log, error) {
	query := `
		SELECT id, project_id, member_id, timestamp, type, context, value, participant_count
		FROM logs
		ORDER BY timestamp DESC
	`
	return r.scanLogs(r.db.QueryContext(ctx, query))
}

func (r *LogRepository) scanLogs(rows *sql.Rows, err error) ([]vault.Log, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	var logs []vault.Log
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, *entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}

	return logs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (*vault.Log, error) {
	var entry vault.Log
	var memberID sql.NullString
	err := row.Scan(
		&entry.ID,
		&entry.ProjectID,
		&memberID,
		&entry.Timestamp,
		&entry.Type,
		&entry.Context,
		&entry.Value,
		&entry.ParticipantCount,
	)
	if err != nil {
		return nil, err
	}
	if memberID.Valid {
		entry.MemberID = &memberID.String
	}
	return &entry, nil
}
