package vault

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProjectRepository provides persistence for project rows.
type ProjectRepository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Project, error)
}

// MemberRepository provides persistence for member rows.
type MemberRepository interface {
	Create(ctx context.Context, m *Member) error
	Get(ctx context.Context, id string) (*Member, error)
	ListByProject(ctx context.Context, projectID string) ([]Member, error)
	ListAll(ctx context.Context) ([]Member, error)
}

// LogRepository provides read access to log rows. Logs are only ever written
// by the ledger engine's atomic transactions.
type LogRepository interface {
	Get(ctx context.Context, projectID, id string) (*Log, error)
	ListByProject(ctx context.Context, projectID string) ([]Log, error)
	ListAll(ctx context.Context) ([]Log, error)
}

// Engine is the mutating side of the ledger: every call runs as one atomic
// store transaction and either fully commits or leaves no trace.
type Engine interface {
	Record(ctx context.Context, projectID string, amount decimal.Decimal, logContext string, memberID string) (*Log, error)
	Void(ctx context.Context, projectID, logID string) (*Log, error)
	Decommission(ctx context.Context, projectID, memberID string, refund bool) (*Log, error)
}
