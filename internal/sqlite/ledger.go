package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ardiva/vaulthk/internal/domain/ledger"
	"github.com/ardiva/vaulthk/internal/domain/vault"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerStore implements ledger.Store for SQLite. Every operation is a single
// database transaction: the balance update, member-total updates and the log
// insert or delete commit together or not at all. A log row is never written
// without its balance effect, and never deleted without its compensating
// reversal.
type LedgerStore struct {
	db *DB
}

// NewLedgerStore creates a new LedgerStore
func NewLedgerStore(db *DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// RecordTransaction applies a monetary event. Positive amount = expense
// (reduces balance), negative = injection. An empty memberID splits an
// expense evenly across the members present right now; the membership count
// is read fresh inside the transaction and stamped on the log so the event
// stays reversible after the roster changes.
func (s *LedgerStore) RecordTransaction(ctx context.Context, projectID string, amount decimal.Decimal, logContext string, memberID string) (*vault.Log, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := projectBalance(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}

	// Fresh membership read: the source of truth for the participant count.
	members, err := projectMembers(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}

	isExpense := amount.IsPositive()

	if err := setBalance(ctx, tx, projectID, balance.Sub(amount)); err != nil {
		return nil, err
	}

	if isExpense {
		if memberID != "" {
			target, ok := findMember(members, memberID)
			if !ok {
				return nil, vault.ErrMemberNotFound
			}
			if err := setMemberTotal(ctx, tx, memberID, target.totalSpent.Add(amount)); err != nil {
				return nil, err
			}
		} else if len(members) > 0 {
			share := ledger.Share(amount, len(members))
			for _, m := range members {
				if err := setMemberTotal(ctx, tx, m.id, m.totalSpent.Add(share)); err != nil {
					return nil, err
				}
			}
		}
	}

	participantCount := 1
	if memberID == "" && len(members) > 0 {
		participantCount = len(members)
	}

	entry := &vault.Log{
		ID:               uuid.NewString(),
		ProjectID:        projectID,
		Timestamp:        time.Now().UTC(),
		Type:             vault.LogInjection,
		Context:          logContext,
		Value:            amount.Neg(),
		ParticipantCount: participantCount,
	}
	if isExpense {
		entry.Type = vault.LogExpense
	}
	if memberID != "" {
		entry.MemberID = &memberID
	}
	if isExpense && memberID == "" {
		entry.Context = logContext + " (SHARED_SPLIT)"
	}

	if err := insertLog(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

// VoidLog reverses the effect of a committed log using the log's own stored
// value, member reference and participant count, then deletes the row.
// If membership changed since the log was written, a shared reversal still
// divides by the stored participant count but lands on the current roster.
func (s *LedgerStore) VoidLog(ctx context.Context, projectID, logID string) (*vault.Log, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT id, project_id, member_id, timestamp, type, context, value, participant_count
		FROM logs
		WHERE id = ? AND project_id = ?
	`
	entry, err := scanLog(tx.QueryRowContext(ctx, query, logID, projectID))
	if err == sql.ErrNoRows {
		return nil, ledger.ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load log: %w", err)
	}

	balance, err := projectBalance(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	// Value was stored as -amount, so subtracting it restores the balance.
	if err := setBalance(ctx, tx, projectID, balance.Sub(entry.Value)); err != nil {
		return nil, err
	}

	if entry.Type == vault.LogExpense {
		if entry.MemberID != nil {
			total, ok, err := memberTotal(ctx, tx, *entry.MemberID)
			if err != nil {
				return nil, err
			}
			// A dangling reference means the member was decommissioned;
			// there is no total left to correct.
			if ok {
				if err := setMemberTotal(ctx, tx, *entry.MemberID, total.Add(entry.Value)); err != nil {
					return nil, err
				}
			}
		} else {
			members, err := projectMembers(ctx, tx, projectID)
			if err != nil {
				return nil, err
			}
			if len(members) > 0 {
				pc := entry.ParticipantCount
				if pc < 1 {
					pc = 1
				}
				share := entry.Value.Div(decimal.NewFromInt(int64(pc)))
				for _, m := range members {
					if err := setMemberTotal(ctx, tx, m.id, m.totalSpent.Add(share)); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM logs WHERE id = ?`, logID); err != nil {
		return nil, fmt.Errorf("failed to delete log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

// DecommissionMember hard-deletes a member, optionally returning their
// attributed spend to the project balance, and writes an injection log
// documenting the removal even when the refund is zero. The member's
// historical direct logs keep their now-dangling member reference.
func (s *LedgerStore) DecommissionMember(ctx context.Context, projectID, memberID string, refund bool) (*vault.Log, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var name string
	var totalSpent decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`SELECT name, total_spent FROM members WHERE id = ? AND project_id = ?`,
		memberID, projectID,
	).Scan(&name, &totalSpent)
	if err == sql.ErrNoRows {
		return nil, vault.ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	refundValue := decimal.Zero
	if refund {
		refundValue = totalSpent
	}

	balance, err := projectBalance(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	if err := setBalance(ctx, tx, projectID, balance.Add(refundValue)); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, memberID); err != nil {
		return nil, fmt.Errorf("failed to delete member: %w", err)
	}

	decision := "FORFEITED"
	if refund {
		decision = "REFUNDED"
	}

	entry := &vault.Log{
		ID:               uuid.NewString(),
		ProjectID:        projectID,
		Timestamp:        time.Now().UTC(),
		Type:             vault.LogInjection,
		Context:          fmt.Sprintf("UNIT_DECOMMISSIONED: %s (%s)", name, decision),
		Value:            refundValue,
		ParticipantCount: 1,
	}
	if err := insertLog(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

type memberRow struct {
	id         string
	totalSpent decimal.Decimal
}

func findMember(members []memberRow, id string) (memberRow, bool) {
	for _, m := range members {
		if m.id == id {
			return m, true
		}
	}
	return memberRow{}, false
}

func projectBalance(ctx context.Context, tx *sql.Tx, projectID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx, `SELECT balance FROM projects WHERE id = ?`, projectID).Scan(&balance)
	if err == sql.ErrNoRows {
		return decimal.Zero, vault.ErrProjectNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

func setBalance(ctx context.Context, tx *sql.Tx, projectID string, balance decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE projects SET balance = ?, updated_at = ? WHERE id = ?`,
		balance, time.Now().UTC(), projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

// projectMembers reads the roster inside the transaction. Rows are fully
// drained before returning so later statements can reuse the connection.
func projectMembers(ctx context.Context, tx *sql.Tx, projectID string) ([]memberRow, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, total_spent FROM members WHERE project_id = ? ORDER BY created_at ASC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []memberRow
	for rows.Next() {
		var m memberRow
		if err := rows.Scan(&m.id, &m.totalSpent); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return members, nil
}

func memberTotal(ctx context.Context, tx *sql.Tx, memberID string) (decimal.Decimal, bool, error) {
	var total decimal.Decimal
	err := tx.QueryRowContext(ctx, `SELECT total_spent FROM members WHERE id = ?`, memberID).Scan(&total)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read member total: %w", err)
	}
	return total, true, nil
}

func setMemberTotal(ctx context.Context, tx *sql.Tx, memberID string, total decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE members SET total_spent = ?, updated_at = ? WHERE id = ?`,
		total, time.Now().UTC(), memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member total: %w", err)
	}
	return nil
}

func insertLog(ctx context.Context, tx *sql.Tx, entry *vault.Log) error {
	var memberID sql.NullString
	if entry.MemberID != nil {
		memberID = sql.NullString{String: *entry.MemberID, Valid: true}
	}

	query := `
		INSERT INTO logs (id, project_id, member_id, timestamp, type, context, value, participant_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.ExecContext(ctx, query,
		entry.ID,
		entry.ProjectID,
		memberID,
		entry.Timestamp,
		entry.Type,
		entry.Context,
		entry.Value,
		entry.ParticipantCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert log: %w", err)
	}
	return nil
}
