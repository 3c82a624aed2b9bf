// Package mocks provides testify mocks for the repository and engine
// interfaces.
package mocks

import (
	"context"

	"github.com/ardiva/vaulthk/internal/domain/vault"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for vault.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *vault.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*vault.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*vault.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) List(ctx context.Context) ([]vault.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]vault.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// MemberRepository is a mock for vault.MemberRepository.
type MemberRepository struct {
	mock.Mock
}

func (m *MemberRepository) Create(ctx context.Context, member *vault.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MemberRepository) Get(ctx context.Context, id string) (*vault.Member, error) {
	args := m.Called(ctx, id)
	if member, ok := args.Get(0).(*vault.Member); ok {
		return member, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) ListByProject(ctx context.Context, projectID string) ([]vault.Member, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]vault.Member); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) ListAll(ctx context.Context) ([]vault.Member, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]vault.Member); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// LogRepository is a mock for vault.LogRepository.
type LogRepository struct {
	mock.Mock
}

func (m *LogRepository) Get(ctx context.Context, projectID, id string) (*vault.Log, error) {
	args := m.Called(ctx, projectID, id)
	if entry, ok := args.Get(0).(*vault.Log); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LogRepository) ListByProject(ctx context.Context, projectID string) ([]vault.Log, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]vault.Log); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LogRepository) ListAll(ctx context.Context) ([]vault.Log, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]vault.Log); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// LedgerStore is a mock for ledger.Store.
type LedgerStore struct {
	mock.Mock
}

func (m *LedgerStore) RecordTransaction(ctx context.Context, projectID string, amount decimal.Decimal, logContext string, memberID string) (*vault.Log, error) {
	args := m.Called(ctx, projectID, amount, logContext, memberID)
	if entry, ok := args.Get(0).(*vault.Log); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerStore) VoidLog(ctx context.Context, projectID, logID string) (*vault.Log, error) {
	args := m.Called(ctx, projectID, logID)
	if entry, ok := args.Get(0).(*vault.Log); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerStore) DecommissionMember(ctx context.Context, projectID, memberID string, refund bool) (*vault.Log, error) {
	args := m.Called(ctx, projectID, memberID, refund)
	if entry, ok := args.Get(0).(*vault.Log); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

// Engine is a mock for vault.Engine.
type Engine struct {
	mock.Mock
}

func (m *Engine) Record(ctx context.Context, projectID string, amount decimal.Decimal, logContext string, memberID string) (*vault.Log, error) {
	args := m.Called(ctx, projectID, amount, logContext, memberID)
	if entry, ok := args.Get(0).(*vault.Log); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Engine) Void(ctx context.Context, projectID, logID string) (*vault.Log, error) {
	args := m.Called(ctx, projectID, logID)
	if entry, ok := args.Get(0).(*vault.Log); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Engine) Decommission(ctx context.Context, projectID, memberID string, refund bool) (*vault.Log, error) {
	args := m.Called(ctx, projectID, memberID, refund)
	if entry, ok := args.Get(0).(*vault.Log); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}
