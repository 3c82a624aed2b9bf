package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/ardiva/vaulthk/internal/domain/vault"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
)

// ProjectView is the wire representation of a vault.
type ProjectView struct {
	ID      string       `json:"id" jsonschema:"project identifier"`
	Name    string       `json:"name" jsonschema:"project name"`
	Balance string       `json:"balance" jsonschema:"current balance as a decimal string"`
	Active  bool         `json:"active" jsonschema:"whether this is the caller's active project"`
	Members []MemberView `json:"members,omitempty"`
	Logs    []LogView    `json:"logs,omitempty"`
}

// MemberView is the wire representation of a roster entry.
type MemberView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	TotalSpent string `json:"total_spent" jsonschema:"attributed spend as a decimal string"`
	CreatedAt  string `json:"created_at"`
}

// LogView is the wire representation of a ledger event. MemberName resolves
// against the current roster; a decommissioned member renders as FORMER UNIT.
type LogView struct {
	ID               string `json:"id"`
	MemberID         string `json:"member_id,omitempty"`
	MemberName       string `json:"member_name,omitempty"`
	Timestamp        string `json:"timestamp"`
	Type             string `json:"type"`
	Context          string `json:"context"`
	Value            string `json:"value" jsonschema:"signed decimal: positive = funds in, negative = funds out"`
	ParticipantCount int    `json:"participant_count"`
}

type CreateProjectInput struct {
	Name string `json:"name" jsonschema:"project name"`
}

type DeleteProjectInput struct {
	ID string `json:"id" jsonschema:"project identifier"`
}

type DeleteProjectResult struct {
	Deleted bool `json:"deleted"`
}

type ListProjectsInput struct{}

type ListProjectsResult struct {
	Projects []ProjectView `json:"projects"`
}

type GetProjectInput struct {
	ID string `json:"id,omitempty" jsonschema:"project identifier (omit for the active project)"`
}

type GetBalanceInput struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"project identifier (omit for the active project)"`
}

type GetBalanceResult struct {
	ProjectID string `json:"project_id"`
	Balance   string `json:"balance" jsonschema:"current balance as a decimal string"`
}

type AddMemberInput struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	Name      string `json:"name" jsonschema:"member name"`
	Role      string `json:"role,omitempty" jsonschema:"free-text role label (defaults to Crew)"`
}

type DecommissionMemberInput struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	MemberID  string `json:"member_id" jsonschema:"member to remove"`
	Refund    bool   `json:"refund" jsonschema:"return the member's attributed spend to the project balance"`
}

type RecordTransactionInput struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	Amount    string `json:"amount" jsonschema:"decimal string; positive = expense, negative = injection"`
	Context   string `json:"context" jsonschema:"free-text description of the event"`
	MemberID  string `json:"member_id,omitempty" jsonschema:"attribute the full amount to this member; omit to split across all current members"`
}

type VoidLogInput struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	LogID     string `json:"log_id" jsonschema:"log entry to void"`
}

type MutationResult struct {
	Log     LogView `json:"log"`
	Balance string  `json:"balance" jsonschema:"project balance after the operation"`
}

type MemberAuditInput struct {
	ProjectID string `json:"project_id" jsonschema:"project identifier"`
	MemberID  string `json:"member_id" jsonschema:"member to audit"`
}

type AuditEntryView struct {
	Log   LogView `json:"log"`
	Share string  `json:"share" jsonschema:"spend attributed to the member for this log"`
}

type MemberAuditResult struct {
	Entries []AuditEntryView `json:"entries"`
}

func registerTools(server *sdkmcp.Server, svc *vault.Service) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Initialize a new vault with zero balance; it becomes the active project",
	}, createProjectHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a vault and all of its members and logs",
	}, deleteProjectHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all vaults with balances, rosters and ledger history",
	}, listProjectsHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one vault (or the active one) with its members and logs",
	}, getProjectHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_balance",
		Description: "Get a vault's current balance (or the active vault's)",
	}, getBalanceHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_member",
		Description: "Register a member on a vault's roster",
	}, addMemberHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "decommission_member",
		Description: "Remove a member, optionally refunding their attributed spend to the vault",
	}, decommissionMemberHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "record_transaction",
		Description: "Record an expense (positive amount) or injection (negative amount); expenses without a member are split across the current roster",
	}, recordTransactionHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "void_log",
		Description: "Void a ledger entry: exactly reverse its balance and member effects, then delete it",
	}, voidLogHandler(svc))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "member_audit",
		Description: "Break down a member's attributed spend across direct and shared expenses",
	}, memberAuditHandler(svc))
}

func createProjectHandler(svc *vault.Service) sdkmcp.ToolHandlerFor[CreateProjectInput, ProjectView] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input CreateProjectInput) (*sdkmcp.CallToolResult, ProjectView, error) {
		proj, err := svc.AddProject(ctx, input.Name)
		if err != nil {
			return nil, ProjectView{}, fmt.Errorf("create project failed: %w", err)
		}
		view := projectView(*proj, svc.ActiveProjectID())
		return nil, view, nil
	}
}

func deleteProjectHandler(svc *vault.Service) sdkmcp.ToolHandlerFor[DeleteProjectInput, DeleteProjectResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input DeleteProjectInput) (*sdkmcp.CallToolResult, DeleteProjectResult, error) {
		if err := svc.DeleteProject(ctx, input.ID); err != nil {
			return nil, DeleteProjectResult{}, fmt.Errorf("delete project failed: %w", err)
		}
		return nil, DeleteProjectResult{Deleted: true}, nil
	}
}

func listProjectsHandler(svc *vault.Service) sdkmcp.ToolHandlerFor[ListProjectsInput, ListProjectsResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsInput) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
		projects, err := svc.FetchProjects(ctx)
		if err != nil {
			return nil, ListProjectsResult{}, fmt.Errorf("list projects failed: %w", err)
		}
		activeID := svc.ActiveProjectID()
		result := ListProjectsResult{Projects: make([]ProjectView, 0, len(projects))}
		for _, p := range projects {
			result.Projects = append(result.Projects, projectView(p, activeID))
		}
		return nil, result, nil
	}
}

func getProjectHandler(svc *vault.Service) sdkmcp.ToolHandlerFor[GetProjectInput, ProjectView] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input GetProjectInput) (*sdkmcp.CallToolResult, ProjectView, error) {
		if _, err := svc.FetchProjects(ctx); err != nil {
			return nil, ProjectView{}, fmt.Errorf("get project failed: %w", err)
		}
		id := input.ID
		if id == "" {
			id = svc.ActiveProjectID()
		}
		proj, err := svc.Project(id)
		if err != nil {
			return nil, ProjectView{}, fmt.Errorf("get project failed: %w", err)
		}
		return nil, projectView(*proj, svc.ActiveProjectID()), nil
	}
}

func getBalanceHandler(svc *vault.Service) sdkmcp.ToolHandlerFor[GetBalanceInput, GetBalanceResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input GetBalanceInput) (*sdkmcp.CallToolResult, GetBalanceResult, error) {
		if _, err := svc.FetchProjects(ctx); err != nil {
			return nil, GetBalanceResult{}, fmt.Errorf("get balance failed: %w", err)
		}
		id := input.ProjectID
		if id == "" {
			id = svc.ActiveProjectID()
		}
		proj, err := svc.Project(id)
		if err != nil {
			return nil, GetBalanceResult{}, fmt.Errorf("get balance failed: %w", err)
		}
		return nil, GetBalanceResult{ProjectID: proj.ID, Balance: proj.Balance.String()}, nil
	}
}

func addMemberHandler(svc *vault.Service) sdkmcp.ToolHandlerFor[AddMemberInput, MemberView] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input AddMemberInput) (*sdkmcp.CallToolResult, MemberView, error) {
		m, err := svc.AddMember(ctx, input.ProjectID, input.Name, input.Role)
		if err != nil {
			return nil, MemberView{}, fmt.Errorf("add member failed: %w", err)
		}
		return nil, memberView(*m), nil
	}
}

func decommissionMemberHandler(svc *vault.Service) sdkmcp.ToolHandlerFor[DecommissionMemberInput, MutationResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input DecommissionMemberInput) (*sdkmcp.CallToolResult, MutationResult, error) {
		entry, err := svc.DecommissionMember(ctx, input.ProjectID, input.MemberID, input.Refund)
		if err != nil {
			return nil, MutationResult{}, fmt.Errorf("decommission failed: %w", err)
		}
		return nil, mutationResult(svc, input.ProjectID, *entry), nil
	}
}

func recordTransactionHandler(svc *vault.Service) sdkmcp.ToolHandlerFor[RecordTransactionInput, MutationResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input RecordTransactionInput) (*sdkmcp.CallToolResult, MutationResult, error) {
		amount, err := decimal.NewFromString(input.Amount)
		if err != nil {
			return nil, MutationResult{}, fmt.Errorf("invalid amount %q: %w", input.Amount, err)
		}
		entry, err := svc.AddExpense(ctx, input.ProjectID, amount, input.Context, input.MemberID)
		if err != nil {
			return nil, MutationResult{}, fmt.Errorf("record transaction failed: %w", err)
		}
		return nil, mutationResult(svc, input.ProjectID, *entry), nil
	}
}

func voidLogHandler(svc *vault.Service) sdkmcp.ToolHandlerFor[VoidLogInput, MutationResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input VoidLogInput) (*sdkmcp.CallToolResult, MutationResult, error) {
		entry, err := svc.VoidLog(ctx, input.ProjectID, input.LogID)
		if err != nil {
			return nil, MutationResult{}, fmt.Errorf("void failed: %w", err)
		}
		return nil, mutationResult(svc, input.ProjectID, *entry), nil
	}
}

func memberAuditHandler(svc *vault.Service) sdkmcp.ToolHandlerFor[MemberAuditInput, MemberAuditResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input MemberAuditInput) (*sdkmcp.CallToolResult, MemberAuditResult, error) {
		if _, err := svc.FetchProjects(ctx); err != nil {
			return nil, MemberAuditResult{}, fmt.Errorf("member audit failed: %w", err)
		}
		entries, err := svc.MemberAudit(input.ProjectID, input.MemberID)
		if err != nil {
			return nil, MemberAuditResult{}, fmt.Errorf("member audit failed: %w", err)
		}
		proj, err := svc.Project(input.ProjectID)
		if err != nil {
			return nil, MemberAuditResult{}, fmt.Errorf("member audit failed: %w", err)
		}
		result := MemberAuditResult{Entries: make([]AuditEntryView, 0, len(entries))}
		for _, e := range entries {
			result.Entries = append(result.Entries, AuditEntryView{
				Log:   logView(proj, e.Log),
				Share: e.Share.String(),
			})
		}
		return nil, result, nil
	}
}

func projectView(p vault.Project, activeID string) ProjectView {
	view := ProjectView{
		ID:      p.ID,
		Name:    p.Name,
		Balance: p.Balance.String(),
		Active:  p.ID == activeID,
	}
	for _, m := range p.Members {
		view.Members = append(view.Members, memberView(m))
	}
	for _, l := range p.Logs {
		view.Logs = append(view.Logs, logView(&p, l))
	}
	return view
}

func memberView(m vault.Member) MemberView {
	return MemberView{
		ID:         m.ID,
		Name:       m.Name,
		Role:       m.Role,
		TotalSpent: m.TotalSpent.String(),
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}

func logView(p *vault.Project, l vault.Log) LogView {
	view := LogView{
		ID:               l.ID,
		Timestamp:        l.Timestamp.Format(time.RFC3339),
		Type:             string(l.Type),
		Context:          l.Context,
		Value:            l.Value.String(),
		ParticipantCount: l.ParticipantCount,
	}
	if l.MemberID != nil {
		view.MemberID = *l.MemberID
		view.MemberName = p.MemberName(*l.MemberID)
	}
	return view
}

// mutationResult pairs the affected log with the post-commit balance from the
// refreshed projection. A project that vanished mid-flight reports an empty
// balance rather than failing the already-committed mutation.
func mutationResult(svc *vault.Service, projectID string, entry vault.Log) MutationResult {
	result := MutationResult{}
	proj, err := svc.Project(projectID)
	if err == nil {
		result.Balance = proj.Balance.String()
		result.Log = logView(proj, entry)
		return result
	}
	result.Log = logView(&vault.Project{}, entry)
	return result
}
