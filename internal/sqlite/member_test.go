package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ardiva/vaulthk/internal/domain/vault"
	"github.com/ardiva/vaulthk/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMemberRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	seedProject(t, db, "p1", "Ops Vault")
	seedMember(t, db, "m1", "p1", "Vex")

	m, err := repo.Get(ctx, "m1")
	require.NoError(t, err)
	require.Equal(t, "Vex", m.Name)
	require.Equal(t, "p1", m.ProjectID)
	requireDecimal(t, "0", m.TotalSpent)

	_, err = repo.Get(ctx, "nonexistent")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemberRepository_CreateRequiresProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewMemberRepository(db)

	err := repo.Create(context.Background(), &vault.Member{
		ID:         "m1",
		ProjectID:  "no-such-project",
		Name:       "Ghost",
		Role:       "Crew",
		TotalSpent: decimal.Zero,
		CreatedAt:  time.Now().UTC(),
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestMemberRepository_ListByProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	seedProject(t, db, "p1", "Ops Vault")
	seedProject(t, db, "p2", "Side Vault")
	seedMember(t, db, "m1", "p1", "Vex")
	seedMember(t, db, "m2", "p1", "Kestrel")
	seedMember(t, db, "m3", "p2", "Juno")

	members, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, members, 2)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
