package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/ardiva/vaulthk/internal/domain/ledger"
	"github.com/ardiva/vaulthk/internal/domain/vault"
	"github.com/ardiva/vaulthk/internal/repository/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_RecordPassesThrough(t *testing.T) {
	ctx := context.Background()
	store := &mocks.LedgerStore{}
	entry := &vault.Log{ID: "l1", ProjectID: "p1", Type: vault.LogExpense, Value: decimal.NewFromInt(-300), ParticipantCount: 3}
	store.On("RecordTransaction", ctx, "p1", mock.Anything, "pizza", "").Return(entry, nil)

	svc := ledger.NewService(store, nil)
	got, err := svc.Record(ctx, "p1", decimal.NewFromInt(300), "pizza", "")
	require.NoError(t, err)
	require.Equal(t, "l1", got.ID)
}

func TestLedgerService_VoidNotFound(t *testing.T) {
	ctx := context.Background()
	store := &mocks.LedgerStore{}
	store.On("VoidLog", ctx, "p1", "missing").Return((*vault.Log)(nil), ledger.ErrLogNotFound)

	svc := ledger.NewService(store, nil)
	_, err := svc.Void(ctx, "p1", "missing")
	require.ErrorIs(t, err, ledger.ErrLogNotFound)
}

// A second mutating call while one is in flight is rejected with ErrBusy and
// never reaches the store.
func TestLedgerService_BusyRejection(t *testing.T) {
	ctx := context.Background()
	store := &mocks.LedgerStore{}

	entered := make(chan struct{})
	release := make(chan struct{})
	store.On("RecordTransaction", mock.Anything, "p1", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&vault.Log{ID: "l1"}, nil).
		Once()

	svc := ledger.NewService(store, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.Record(ctx, "p1", decimal.NewFromInt(10), "slow", "")
		require.NoError(t, err)
	}()

	<-entered

	_, err := svc.Record(ctx, "p1", decimal.NewFromInt(20), "rejected", "")
	require.ErrorIs(t, err, vault.ErrBusy)

	_, err = svc.Void(ctx, "p1", "l0")
	require.ErrorIs(t, err, vault.ErrBusy)

	_, err = svc.Decommission(ctx, "p1", "m1", true)
	require.ErrorIs(t, err, vault.ErrBusy)

	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight transaction never finished")
	}

	store.AssertNumberOfCalls(t, "RecordTransaction", 1)
}

func TestLedgerService_LatchReleasedAfterFailure(t *testing.T) {
	ctx := context.Background()
	store := &mocks.LedgerStore{}
	store.On("DecommissionMember", ctx, "p1", "m1", false).Return((*vault.Log)(nil), vault.ErrMemberNotFound).Once()
	store.On("DecommissionMember", ctx, "p1", "m2", false).Return(&vault.Log{ID: "l1"}, nil).Once()

	svc := ledger.NewService(store, nil)

	_, err := svc.Decommission(ctx, "p1", "m1", false)
	require.ErrorIs(t, err, vault.ErrMemberNotFound)

	// The latch must not stay held after a failed transaction.
	_, err = svc.Decommission(ctx, "p1", "m2", false)
	require.NoError(t, err)
}
