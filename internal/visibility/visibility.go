// Package visibility implements the two-tier access rules: a list-level
// filter deciding which members (and therefore which logs) appear in
// team-scoped lists, and a narrower detail-level filter deciding whether one
// specific member's meeting history may be read. The split exists because a
// member can be enumerable through the company-wide directory without their
// meeting content being readable.
//
// All functions are pure, order-preserving over their inputs, and degrade to
// empty results; none of them returns an error.
package visibility

import (
	"github.com/keithshino/one-on-one-supporter/internal/identity"
	"github.com/keithshino/one-on-one-supporter/internal/models"
)

// Scope selects between organization-wide and own-team visibility. It is
// meaningful only for admins.
type Scope string

const (
	ScopeAll  Scope = "all"
	ScopeTeam Scope = "team"
)

// ValidScope reports whether s is a known scope selector.
func ValidScope(s Scope) bool {
	return s == ScopeAll || s == ScopeTeam
}

// Members computes the list-level visible member set.
//
//   - unresolved session: empty
//   - admin + scope all: everyone
//   - admin + scope team: direct reports
//   - manager (non-admin): direct reports, scope ignored
//   - plain member: empty (self access goes through LogsForMember)
func Members(sess identity.Session, scope Scope, members []models.Member) []models.Member {
	if !sess.Resolved() {
		return nil
	}

	if sess.IsAdmin && scope == ScopeAll {
		out := make([]models.Member, len(members))
		copy(out, members)
		return out
	}

	if sess.IsAdmin || sess.IsManager {
		return directReports(sess.Self.ID, members)
	}

	return nil
}

// Logs filters logs down to those whose subject is in the visible member
// set, preserving input order.
func Logs(visibleMembers []models.Member, logs []models.Log) []models.Log {
	if len(visibleMembers) == 0 {
		return nil
	}

	ids := make(map[string]struct{}, len(visibleMembers))
	for i := range visibleMembers {
		ids[visibleMembers[i].ID] = struct{}{}
	}

	var out []models.Log
	for i := range logs {
		if _, ok := ids[logs[i].MemberID]; ok {
			out = append(out, logs[i])
		}
	}
	return out
}

// CanViewLogs is the detail-level rule for one target member's history:
// the target themselves, an admin, or the target's direct manager.
func CanViewLogs(sess identity.Session, target *models.Member) bool {
	if !sess.Resolved() || target == nil {
		return false
	}
	if target.ID == sess.Self.ID {
		return true
	}
	if sess.IsAdmin {
		return true
	}
	return target.ManagerID != nil && *target.ManagerID == sess.Self.ID
}

// LogsForMember returns the target member's logs when the detail-level rule
// allows it, and nothing otherwise.
func LogsForMember(sess identity.Session, target *models.Member, logs []models.Log) []models.Log {
	if !CanViewLogs(sess, target) {
		return nil
	}

	var out []models.Log
	for i := range logs {
		if logs[i].MemberID == target.ID {
			out = append(out, logs[i])
		}
	}
	return out
}

func directReports(selfID string, members []models.Member) []models.Member {
	var out []models.Member
	for i := range members {
		if members[i].ManagerID != nil && *members[i].ManagerID == selfID {
			out = append(out, members[i])
		}
	}
	return out
}
