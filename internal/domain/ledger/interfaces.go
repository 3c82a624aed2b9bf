package ledger

import (
	"context"

	"github.com/ardiva/vaulthk/internal/domain/vault"
	"github.com/shopspring/decimal"
)

// Store executes the ledger's multi-table transactions. Each method runs as a
// single database transaction: balance update, member-total updates and log
// insert/delete commit together or roll back together. No partial state is
// ever observable.
type Store interface {
	// RecordTransaction applies a monetary event and returns the inserted log.
	// Positive amount = expense, negative = injection. Empty memberID means
	// the cost is shared across the members present at execution time.
	RecordTransaction(ctx context.Context, projectID string, amount decimal.Decimal, logContext string, memberID string) (*vault.Log, error)

	// VoidLog reverses a committed log from its own stored value, member
	// reference and participant count, then deletes the row. Returns the
	// voided log.
	VoidLog(ctx context.Context, projectID, logID string) (*vault.Log, error)

	// DecommissionMember hard-deletes a member, optionally refunding their
	// attributed spend to the project balance, and writes an injection log
	// documenting the removal. Returns that audit log.
	DecommissionMember(ctx context.Context, projectID, memberID string, refund bool) (*vault.Log, error)
}
