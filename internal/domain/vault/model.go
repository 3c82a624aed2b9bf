package vault

import (
	"time"

	"github.com/shopspring/decimal"
)

// LogType classifies a ledger event.
type LogType string

const (
	// LogInjection is a funds-in event (top-up, refund).
	LogInjection LogType = "INJECTION"
	// LogExpense is a funds-out event, direct or shared.
	LogExpense LogType = "EXPENSE"
)

// FormerUnitLabel is how a dangling member reference renders in views.
const FormerUnitLabel = "FORMER UNIT"

// Project is a named pool of shared funds with its own members and log history.
// Balance is the net of all injections and expenses: balance == sum(log.Value).
type Project struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	Members   []Member        `json:"members"`
	Logs      []Log           `json:"logs"`
}

// Member is a person attributed a share of spending within a project.
// TotalSpent accumulates the member's attributed burn across non-voided
// expense logs. CreatedAt doubles as the cutoff for retroactive shared-cost
// attribution.
type Member struct {
	ID         string          `json:"id"`
	ProjectID  string          `json:"project_id"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Log is a single monetary event. Value is signed: positive means funds added
// to the project, negative means funds removed. MemberID is a weak reference;
// nil means the event is shared across the members active at write time, and a
// non-nil id may dangle after that member is decommissioned.
// ParticipantCount records how many members were present when a shared event
// was written, so reversal never depends on current membership.
type Log struct {
	ID               string          `json:"id"`
	ProjectID        string          `json:"project_id"`
	MemberID         *string         `json:"member_id,omitempty"`
	Timestamp        time.Time       `json:"timestamp"`
	Type             LogType         `json:"type"`
	Context          string          `json:"context"`
	Value            decimal.Decimal `json:"value"`
	ParticipantCount int             `json:"participant_count"`
}

// MemberName resolves a log's member reference against the current roster.
// A lookup miss is not an error: the member was decommissioned.
func (p *Project) MemberName(memberID string) string {
	for _, m := range p.Members {
		if m.ID == memberID {
			return m.Name
		}
	}
	return FormerUnitLabel
}

// Member returns the roster entry with the given id, or nil.
func (p *Project) Member(memberID string) *Member {
	for i := range p.Members {
		if p.Members[i].ID == memberID {
			return &p.Members[i]
		}
	}
	return nil
}

// Log returns the log entry with the given id, or nil.
func (p *Project) Log(logID string) *Log {
	for i := range p.Logs {
		if p.Logs[i].ID == logID {
			return &p.Logs[i]
		}
	}
	return nil
}
