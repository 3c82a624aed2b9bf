package ledger

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ardiva/vaulthk/internal/domain/vault"
	"github.com/shopspring/decimal"
)

// Service is the ledger engine. It serializes mutations through a try-lock:
// at most one transaction is in flight per process, and a call arriving while
// one is running is rejected with vault.ErrBusy rather than queued. The store
// guarantees atomicity per call; the latch keeps balance math from
// interleaving across calls.
type Service struct {
	store  Store
	logger *slog.Logger
	mu     sync.Mutex // busy latch, TryLock only
}

// NewService creates a new ledger engine.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Record applies a monetary event. Zero amounts are accepted (they log an
// injection of zero); validation beyond well-typedness is the caller's
// concern.
func (s *Service) Record(ctx context.Context, projectID string, amount decimal.Decimal, logContext string, memberID string) (*vault.Log, error) {
	if !s.mu.TryLock() {
		return nil, vault.ErrBusy
	}
	defer s.mu.Unlock()

	entry, err := s.store.RecordTransaction(ctx, projectID, amount, logContext, memberID)
	if err != nil {
		s.logger.Error("transaction failed", "project_id", projectID, "error", err)
		return nil, err
	}

	s.logger.Info("transaction secured",
		"project_id", projectID,
		"log_id", entry.ID,
		"type", entry.Type,
		"value", entry.Value,
		"participants", entry.ParticipantCount,
	)
	return entry, nil
}

// Void exactly reverses a committed log and removes it. This is the only
// operation that deletes logs.
func (s *Service) Void(ctx context.Context, projectID, logID string) (*vault.Log, error) {
	if !s.mu.TryLock() {
		return nil, vault.ErrBusy
	}
	defer s.mu.Unlock()

	entry, err := s.store.VoidLog(ctx, projectID, logID)
	if err != nil {
		s.logger.Error("void failed", "project_id", projectID, "log_id", logID, "error", err)
		return nil, err
	}

	s.logger.Info("log voided", "project_id", projectID, "log_id", logID, "value", entry.Value)
	return entry, nil
}

// Decommission removes a member and writes the audit injection log.
func (s *Service) Decommission(ctx context.Context, projectID, memberID string, refund bool) (*vault.Log, error) {
	if !s.mu.TryLock() {
		return nil, vault.ErrBusy
	}
	defer s.mu.Unlock()

	entry, err := s.store.DecommissionMember(ctx, projectID, memberID, refund)
	if err != nil {
		s.logger.Error("decommission failed", "project_id", projectID, "member_id", memberID, "error", err)
		return nil, err
	}

	s.logger.Info("member decommissioned",
		"project_id", projectID,
		"member_id", memberID,
		"refund", refund,
		"refund_value", entry.Value,
	)
	return entry, nil
}
