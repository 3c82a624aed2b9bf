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

func seedProject(t *testing.T, db *DB, id, name string) {
	t.Helper()
	repo := NewProjectRepository(db)
	err := repo.Create(context.Background(), &vault.Project{
		ID:        id,
		Name:      name,
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func seedMember(t *testing.T, db *DB, id, projectID, name string) {
	t.Helper()
	repo := NewMemberRepository(db)
	err := repo.Create(context.Background(), &vault.Member{
		ID:         id,
		ProjectID:  projectID,
		Name:       name,
		Role:       "Crew",
		TotalSpent: decimal.Zero,
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, db, "p1", "Ops Vault")

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "p1", retrieved.ID)
	require.Equal(t, "Ops Vault", retrieved.Name)
	requireDecimal(t, "0", retrieved.Balance)

	_, err = repo.Get(ctx, "nonexistent")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_List(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, projects)

	seedProject(t, db, "p1", "First")
	seedProject(t, db, "p2", "Second")

	projects, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
}

func TestProjectRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seedProject(t, db, "p1", "Doomed")

	err := repo.Delete(ctx, "p1")
	require.NoError(t, err)

	_, err = repo.Get(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Delete(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_DeleteCascades(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	seedProject(t, db, "p1", "Doomed")
	seedMember(t, db, "m1", "p1", "Vex")

	store := NewLedgerStore(db)
	_, err := store.RecordTransaction(ctx, "p1", decimal.NewFromInt(100), "gear", "m1")
	require.NoError(t, err)

	err = NewProjectRepository(db).Delete(ctx, "p1")
	require.NoError(t, err)

	members, err := NewMemberRepository(db).ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, members)

	logs, err := NewLogRepository(db).ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, logs)
}
