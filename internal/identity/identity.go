// Package identity maps an authenticated external identity (a verified
// email) onto a Member record and derives its role flags. There is no
// ambient current-user state anywhere in the codebase; callers build a
// Session per request and pass it down explicitly.
package identity

import "github.com/keithshino/one-on-one-supporter/internal/models"

// Session is the resolved identity for one request.
type Session struct {
	// Self is nil when the authenticated email matches no member. That is
	// a valid, expected state (registration pending), never an error.
	Self      *models.Member
	IsAdmin   bool
	IsManager bool
}

// Resolved reports whether the identity matched a member record.
func (s Session) Resolved() bool {
	return s.Self != nil
}

// Resolve returns the first member whose email equals the given one, or nil.
// Email is treated as unique among active members; if that is ever violated
// the first match in collection order wins.
func Resolve(email string, members []models.Member) *models.Member {
	for i := range members {
		if members[i].Email == email {
			return &members[i]
		}
	}
	return nil
}

// IsManager reports whether some other member names self as their manager.
// Manager-ness is structural, recomputed from the full collection every
// time; it is deliberately not a stored flag that could drift.
func IsManager(self *models.Member, members []models.Member) bool {
	if self == nil {
		return false
	}
	for i := range members {
		if members[i].ID == self.ID {
			continue
		}
		if members[i].ManagerID != nil && *members[i].ManagerID == self.ID {
			return true
		}
	}
	return false
}

// NewSession resolves email against the member collection and derives the
// role flags.
func NewSession(email string, members []models.Member) Session {
	self := Resolve(email, members)
	return Session{
		Self:      self,
		IsAdmin:   self != nil && self.IsAdmin,
		IsManager: IsManager(self, members),
	}
}
