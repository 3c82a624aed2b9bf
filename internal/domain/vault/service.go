package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ardiva/vaulthk/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultRole is assigned to members registered without an explicit role.
const DefaultRole = "Crew"

// Service assembles the read model and fronts every state-changing operation.
// Mutations go through the Engine; after each one (success or failure) the
// projection is re-fetched so callers only ever observe committed store state.
type Service struct {
	projects ProjectRepository
	members  MemberRepository
	logs     LogRepository
	engine   Engine
	logger   *slog.Logger

	mu       sync.RWMutex
	cache    []Project
	activeID string
}

// NewService creates a new vault service.
func NewService(projects ProjectRepository, members MemberRepository, logs LogRepository, engine Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		projects: projects,
		members:  members,
		logs:     logs,
		engine:   engine,
		logger:   logger,
	}
}

// FetchProjects re-reads all tables and returns the normalized projection.
// Reads are not subject to the engine's busy latch.
func (s *Service) FetchProjects(ctx context.Context) ([]Project, error) {
	rawProjects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	rawMembers, err := s.members.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	rawLogs, err := s.logs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing logs: %w", err)
	}

	projects := assemble(rawProjects, rawMembers, rawLogs)

	s.mu.Lock()
	s.cache = projects
	if s.activeID != "" && findProject(projects, s.activeID) == nil {
		s.activeID = ""
	}
	s.mu.Unlock()

	return projects, nil
}

// assemble groups member and log rows under their owning projects.
// Log order (newest first) is the repository's responsibility.
func assemble(projects []Project, members []Member, logs []Log) []Project {
	out := make([]Project, len(projects))
	for i, p := range projects {
		p.Members = nil
		p.Logs = nil
		for _, m := range members {
			if m.ProjectID == p.ID {
				p.Members = append(p.Members, m)
			}
		}
		for _, l := range logs {
			if l.ProjectID == p.ID {
				p.Logs = append(p.Logs, l)
			}
		}
		out[i] = p
	}
	return out
}

func findProject(projects []Project, id string) *Project {
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i]
		}
	}
	return nil
}

// Projects returns the last fetched projection.
func (s *Service) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache
}

// Project returns one project from the last fetched projection.
func (s *Service) Project(id string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := findProject(s.cache, id); p != nil {
		return p, nil
	}
	return nil, ErrProjectNotFound
}

// ActiveProjectID returns the caller's current vault selection, or "".
func (s *Service) ActiveProjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// SetActiveProject changes the caller's vault selection. Empty clears it.
func (s *Service) SetActiveProject(id string) {
	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
}

// AddProject initializes a vault with zero balance, no members and no logs,
// and makes it the active selection.
func (s *Service) AddProject(ctx context.Context, name string) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}

	proj := &Project{
		ID:        uuid.NewString(),
		Name:      name,
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.refresh(ctx)
	s.SetActiveProject(proj.ID)
	return proj, nil
}

// DeleteProject removes a vault; members and logs go with it via the store's
// cascade. If it was the active selection, the selection is cleared.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}

	s.refresh(ctx)
	s.mu.Lock()
	if s.activeID == id {
		s.activeID = ""
	}
	s.mu.Unlock()
	return nil
}

// AddMember registers a member with zero attributed spend. The registration
// time is recorded: it is the cutoff for retroactive shared-cost attribution.
func (s *Service) AddMember(ctx context.Context, projectID, name, role string) (*Member, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(role) == "" {
		role = DefaultRole
	}

	m := &Member{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		Name:       name,
		Role:       role,
		TotalSpent: decimal.Zero,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.members.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("creating member: %w", err)
	}

	s.refresh(ctx)
	return m, nil
}

// AddExpense records a monetary event. Positive amounts are expenses and
// reduce the balance; negative amounts are injections. A memberID targets the
// full amount at one member; otherwise an expense is split across the members
// active right now.
func (s *Service) AddExpense(ctx context.Context, projectID string, amount decimal.Decimal, logContext string, memberID string) (*Log, error) {
	entry, err := s.engine.Record(ctx, projectID, amount, logContext, memberID)
	return s.afterMutation(ctx, entry, err)
}

// VoidLog exactly reverses a committed log and deletes it.
func (s *Service) VoidLog(ctx context.Context, projectID, logID string) (*Log, error) {
	entry, err := s.engine.Void(ctx, projectID, logID)
	return s.afterMutation(ctx, entry, err)
}

// DecommissionMember removes a member, optionally refunding their attributed
// spend back to the vault, and writes an audit log either way.
func (s *Service) DecommissionMember(ctx context.Context, projectID, memberID string, refund bool) (*Log, error) {
	entry, err := s.engine.Decommission(ctx, projectID, memberID, refund)
	return s.afterMutation(ctx, entry, err)
}

// MemberAudit returns the attributed expense breakdown for one member of the
// last fetched projection.
func (s *Service) MemberAudit(projectID, memberID string) ([]AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := findProject(s.cache, projectID)
	if p == nil {
		return nil, ErrProjectNotFound
	}
	m := p.Member(memberID)
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return MemberAudit(*m, p.Logs), nil
}

// afterMutation re-fetches the projection regardless of the mutation's
// outcome, so the caller's view is never stale relative to committed state.
// The only exception is a busy rejection, which by contract touched nothing.
func (s *Service) afterMutation(ctx context.Context, entry *Log, err error) (*Log, error) {
	if errors.Is(err, ErrBusy) {
		return nil, err
	}
	s.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// refresh re-fetches the projection after a mutation. A failed refresh never
// masks the mutation's own outcome; it is logged and the previous cache stays.
func (s *Service) refresh(ctx context.Context) {
	if _, err := s.FetchProjects(ctx); err != nil {
		s.logger.Error("projection refresh failed", "error", err)
	}
}
