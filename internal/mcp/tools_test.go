package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/ardiva/vaulthk/internal/domain/ledger"
	"github.com/ardiva/vaulthk/internal/domain/vault"
	"github.com/ardiva/vaulthk/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// newTestVault wires the full stack over an in-memory database so the tool
// handlers are exercised end to end.
func newTestVault(t *testing.T) *vault.Service {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	engine := ledger.NewService(sqlite.NewLedgerStore(db), nil)
	return vault.NewService(
		sqlite.NewProjectRepository(db),
		sqlite.NewMemberRepository(db),
		sqlite.NewLogRepository(db),
		engine,
		nil,
	)
}

func createProject(t *testing.T, svc *vault.Service, name string) ProjectView {
	t.Helper()
	_, view, err := createProjectHandler(svc)(context.Background(), nil, CreateProjectInput{Name: name})
	require.NoError(t, err)
	return view
}

func addMember(t *testing.T, svc *vault.Service, projectID, name string) MemberView {
	t.Helper()
	_, view, err := addMemberHandler(svc)(context.Background(), nil, AddMemberInput{ProjectID: projectID, Name: name})
	require.NoError(t, err)
	return view
}

func record(t *testing.T, svc *vault.Service, input RecordTransactionInput) MutationResult {
	t.Helper()
	_, result, err := recordTransactionHandler(svc)(context.Background(), nil, input)
	require.NoError(t, err)
	return result
}

func fetchProject(t *testing.T, svc *vault.Service, id string) ProjectView {
	t.Helper()
	_, view, err := getProjectHandler(svc)(context.Background(), nil, GetProjectInput{ID: id})
	require.NoError(t, err)
	return view
}

func TestCreateProjectTool(t *testing.T) {
	svc := newTestVault(t)

	view := createProject(t, svc, "Ops Vault")
	require.NotEmpty(t, view.ID)
	require.Equal(t, "Ops Vault", view.Name)
	require.Equal(t, "0", view.Balance)
	require.True(t, view.Active, "a new project becomes the active selection")

	_, list, err := listProjectsHandler(svc)(context.Background(), nil, ListProjectsInput{})
	require.NoError(t, err)
	require.Len(t, list.Projects, 1)
	require.Equal(t, view.ID, list.Projects[0].ID)
}

func TestCreateProjectTool_EmptyName(t *testing.T) {
	svc := newTestVault(t)

	_, _, err := createProjectHandler(svc)(context.Background(), nil, CreateProjectInput{Name: "  "})
	require.ErrorIs(t, err, vault.ErrInvalidInput)
}

func TestGetProjectTool_DefaultsToActive(t *testing.T) {
	svc := newTestVault(t)

	createProject(t, svc, "First")
	second := createProject(t, svc, "Second")

	view := fetchProject(t, svc, "")
	require.Equal(t, second.ID, view.ID)

	_, _, err := getProjectHandler(svc)(context.Background(), nil, GetProjectInput{ID: "nope"})
	require.ErrorIs(t, err, vault.ErrProjectNotFound)
}

func TestGetBalanceTool(t *testing.T) {
	svc := newTestVault(t)

	proj := createProject(t, svc, "Ops Vault")
	record(t, svc, RecordTransactionInput{ProjectID: proj.ID, Amount: "-500", Context: "top-up"})

	_, result, err := getBalanceHandler(svc)(context.Background(), nil, GetBalanceInput{})
	require.NoError(t, err)
	require.Equal(t, proj.ID, result.ProjectID)
	require.Equal(t, "500", result.Balance)

	_, _, err = getBalanceHandler(svc)(context.Background(), nil, GetBalanceInput{ProjectID: "nope"})
	require.ErrorIs(t, err, vault.ErrProjectNotFound)
}

func TestDeleteProjectTool(t *testing.T) {
	svc := newTestVault(t)

	proj := createProject(t, svc, "Doomed")
	_, result, err := deleteProjectHandler(svc)(context.Background(), nil, DeleteProjectInput{ID: proj.ID})
	require.NoError(t, err)
	require.True(t, result.Deleted)

	_, _, err = deleteProjectHandler(svc)(context.Background(), nil, DeleteProjectInput{ID: proj.ID})
	require.ErrorIs(t, err, vault.ErrProjectNotFound)
}

func TestRecordTransactionTool_SharedSplit(t *testing.T) {
	svc := newTestVault(t)

	proj := createProject(t, svc, "Ops Vault")
	addMember(t, svc, proj.ID, "Vex")
	addMember(t, svc, proj.ID, "Kestrel")

	result := record(t, svc, RecordTransactionInput{ProjectID: proj.ID, Amount: "300", Context: "pizza"})
	require.Equal(t, "-300", result.Log.Value)
	require.Equal(t, "EXPENSE", result.Log.Type)
	require.Equal(t, 2, result.Log.ParticipantCount)
	require.True(t, strings.HasSuffix(result.Log.Context, "(SHARED_SPLIT)"), "got %q", result.Log.Context)
	require.Equal(t, "-300", result.Balance)

	view := fetchProject(t, svc, proj.ID)
	require.Len(t, view.Members, 2)
	for _, m := range view.Members {
		require.Equal(t, "150", m.TotalSpent)
	}
}

func TestRecordTransactionTool_Injection(t *testing.T) {
	svc := newTestVault(t)

	proj := createProject(t, svc, "Ops Vault")
	result := record(t, svc, RecordTransactionInput{ProjectID: proj.ID, Amount: "-500", Context: "top-up"})
	require.Equal(t, "500", result.Log.Value)
	require.Equal(t, "INJECTION", result.Log.Type)
	require.Equal(t, "500", result.Balance)
}

func TestRecordTransactionTool_InvalidAmount(t *testing.T) {
	svc := newTestVault(t)

	proj := createProject(t, svc, "Ops Vault")
	_, _, err := recordTransactionHandler(svc)(context.Background(), nil, RecordTransactionInput{
		ProjectID: proj.ID, Amount: "a lot", Context: "pizza",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid amount")
}

func TestVoidLogTool_RestoresBalance(t *testing.T) {
	svc := newTestVault(t)

	proj := createProject(t, svc, "Ops Vault")
	m := addMember(t, svc, proj.ID, "Vex")

	recorded := record(t, svc, RecordTransactionInput{
		ProjectID: proj.ID, Amount: "120", Context: "gear", MemberID: m.ID,
	})
	require.Equal(t, "-120", recorded.Balance)

	_, voided, err := voidLogHandler(svc)(context.Background(), nil, VoidLogInput{
		ProjectID: proj.ID, LogID: recorded.Log.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "0", voided.Balance)

	view := fetchProject(t, svc, proj.ID)
	require.Empty(t, view.Logs)
	require.Equal(t, "0", view.Members[0].TotalSpent)
}

func TestVoidLogTool_NotFound(t *testing.T) {
	svc := newTestVault(t)

	proj := createProject(t, svc, "Ops Vault")
	_, _, err := voidLogHandler(svc)(context.Background(), nil, VoidLogInput{ProjectID: proj.ID, LogID: "nope"})
	require.ErrorIs(t, err, ledger.ErrLogNotFound)
}

func TestDecommissionMemberTool(t *testing.T) {
	svc := newTestVault(t)

	proj := createProject(t, svc, "Ops Vault")
	m := addMember(t, svc, proj.ID, "Vex")
	record(t, svc, RecordTransactionInput{ProjectID: proj.ID, Amount: "120", Context: "gear", MemberID: m.ID})

	_, result, err := decommissionMemberHandler(svc)(context.Background(), nil, DecommissionMemberInput{
		ProjectID: proj.ID, MemberID: m.ID, Refund: true,
	})
	require.NoError(t, err)
	require.Equal(t, "INJECTION", result.Log.Type)
	require.Contains(t, result.Log.Context, "UNIT_DECOMMISSIONED: Vex (REFUNDED)")
	require.Equal(t, "120", result.Log.Value)
	require.Equal(t, "0", result.Balance)

	view := fetchProject(t, svc, proj.ID)
	require.Empty(t, view.Members)
}

// The earlier direct expense survives its member's removal; the roster no
// longer resolves the name, so the view falls back to the former-unit label.
func TestLogView_FormerUnit(t *testing.T) {
	svc := newTestVault(t)

	proj := createProject(t, svc, "Ops Vault")
	m := addMember(t, svc, proj.ID, "Vex")
	record(t, svc, RecordTransactionInput{ProjectID: proj.ID, Amount: "120", Context: "gear", MemberID: m.ID})

	_, _, err := decommissionMemberHandler(svc)(context.Background(), nil, DecommissionMemberInput{
		ProjectID: proj.ID, MemberID: m.ID, Refund: false,
	})
	require.NoError(t, err)

	view := fetchProject(t, svc, proj.ID)
	var found bool
	for _, l := range view.Logs {
		if l.MemberID == m.ID {
			found = true
			require.Equal(t, vault.FormerUnitLabel, l.MemberName)
		}
	}
	require.True(t, found, "direct expense log should survive the decommission")
}

func TestMemberAuditTool(t *testing.T) {
	svc := newTestVault(t)

	proj := createProject(t, svc, "Ops Vault")
	vex := addMember(t, svc, proj.ID, "Vex")
	addMember(t, svc, proj.ID, "Kestrel")

	record(t, svc, RecordTransactionInput{ProjectID: proj.ID, Amount: "120", Context: "gear", MemberID: vex.ID})
	record(t, svc, RecordTransactionInput{ProjectID: proj.ID, Amount: "300", Context: "pizza"})
	record(t, svc, RecordTransactionInput{ProjectID: proj.ID, Amount: "-500", Context: "top-up"})

	_, result, err := memberAuditHandler(svc)(context.Background(), nil, MemberAuditInput{
		ProjectID: proj.ID, MemberID: vex.ID,
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 2, "injections carry no attributed burn")

	shares := map[string]string{}
	for _, e := range result.Entries {
		shares[e.Log.Context] = e.Share
	}
	require.Equal(t, "120", shares["gear"])
	require.Equal(t, "150", shares["pizza (SHARED_SPLIT)"])

	_, _, err = memberAuditHandler(svc)(context.Background(), nil, MemberAuditInput{
		ProjectID: proj.ID, MemberID: "ghost",
	})
	require.ErrorIs(t, err, vault.ErrMemberNotFound)
}
