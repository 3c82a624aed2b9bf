package vault

import (
	"time"

	"github.com/shopspring/decimal"
)

// attributionSkew is the backward buffer applied to a member's join time when
// deciding whether a shared log concerns them. It absorbs clock and
// write-ordering skew between a member's registration commit and a
// near-simultaneous shared expense commit.
const attributionSkew = 2 * time.Second

// SharedLogRelevant reports whether a shared (memberless) log is considered
// relevant to a member: the log was written after the member joined, give or
// take the skew buffer. This is a read-time heuristic, never persisted, and
// it dies with the member when they are decommissioned.
func SharedLogRelevant(l Log, m Member) bool {
	if l.MemberID != nil {
		return false
	}
	return !l.Timestamp.Before(m.CreatedAt.Add(-attributionSkew))
}

// RelevantLogs returns the subset of logs attributable to a member: their
// direct logs plus shared logs passing the timestamp heuristic. Input order
// is preserved.
func RelevantLogs(m Member, logs []Log) []Log {
	var out []Log
	for _, l := range logs {
		if l.MemberID != nil {
			if *l.MemberID == m.ID {
				out = append(out, l)
			}
			continue
		}
		if SharedLogRelevant(l, m) {
			out = append(out, l)
		}
	}
	return out
}

// AuditEntry pairs a relevant expense log with the spend attributed to the
// member: the full amount for direct logs, value/participant_count for shared
// ones. Share is positive (a spend), derived from the log's own stored data.
type AuditEntry struct {
	Log   Log             `json:"log"`
	Share decimal.Decimal `json:"share"`
}

// MemberAudit builds the per-member expense breakdown used by audit views.
// Injections are omitted: they carry no attributed burn.
func MemberAudit(m Member, logs []Log) []AuditEntry {
	var entries []AuditEntry
	for _, l := range RelevantLogs(m, logs) {
		if l.Type != LogExpense {
			continue
		}
		share := l.Value.Neg()
		if l.MemberID == nil {
			pc := l.ParticipantCount
			if pc < 1 {
				pc = 1
			}
			share = share.Div(decimal.NewFromInt(int64(pc)))
		}
		entries = append(entries, AuditEntry{Log: l, Share: share})
	}
	return entries
}
