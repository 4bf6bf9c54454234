// Package navigation models the screen-state machine of the client: which
// view is shown, which member and log are selected, and the admin's
// visibility scope. The machine is pure; handlers persist its state in the
// server-side session so an identity switch discards it wholesale.
package navigation

import "github.com/keithshino/one-on-one-supporter/internal/visibility"

// View identifies one screen.
type View string

const (
	ViewDashboard    View = "dashboard"
	ViewMembers      View = "members"
	ViewEditor       View = "editor"
	ViewMemberDetail View = "member-detail"
	ViewProfile      View = "profile"
	ViewProfileList  View = "profile-list"
	ViewMyHistory    View = "my-history"
	ViewAllHistory   View = "all-history"
)

// ValidView reports whether v names a known screen.
func ValidView(v View) bool {
	switch v {
	case ViewDashboard, ViewMembers, ViewEditor, ViewMemberDetail,
		ViewProfile, ViewProfileList, ViewMyHistory, ViewAllHistory:
		return true
	}
	return false
}

// Directory is the lookup the machine consults before selecting entities.
// Unresolvable references make transitions silent no-ops; that is the
// defensive fallback for stale or orphaned data, not a user-facing error.
type Directory interface {
	MemberExists(id string) bool
}

// State is the full navigation state. The zero value is not valid; use New.
type State struct {
	View             View             `json:"view"`
	SelectedMemberID string           `json:"selected_member_id"`
	SelectedLogID    string           `json:"selected_log_id"`
	AdminViewScope   visibility.Scope `json:"admin_view_scope"`
}

// New returns the initial state: dashboard, nothing selected, scope all.
func New() State {
	return State{
		View:           ViewDashboard,
		AdminViewScope: visibility.ScopeAll,
	}
}

// Navigate switches to the given view. Leaving for any view other than the
// editor clears the selected log, so a re-entered editor can never show a
// stale log without an explicit selection. Unknown views are no-ops.
func (s *State) Navigate(v View) {
	if !ValidView(v) {
		return
	}
	s.View = v
	if v != ViewEditor {
		s.SelectedLogID = ""
	}
}

// NavigateMyProfile is the profile-avatar affordance: it opens the profile
// view and additionally clears the selected member, so "my profile" never
// shows a third party left over from a prior lookup.
func (s *State) NavigateMyProfile() {
	s.Navigate(ViewProfile)
	s.SelectedMemberID = ""
}

// SelectMember opens the member detail screen for an existing member.
func (s *State) SelectMember(memberID string, dir Directory) {
	if !dir.MemberExists(memberID) {
		return
	}
	s.Navigate(ViewMemberDetail)
	s.SelectedMemberID = memberID
}

// SelectMemberForProfile opens the profile screen for a third party from the
// directory list. A non-empty selected member is what distinguishes this
// from the self profile.
func (s *State) SelectMemberForProfile(memberID string, dir Directory) {
	if !dir.MemberExists(memberID) {
		return
	}
	s.Navigate(ViewProfile)
	s.SelectedMemberID = memberID
}

// CreateLog opens the editor for a fresh log about the given member. If the
// member cannot be resolved nothing happens.
func (s *State) CreateLog(memberID string, dir Directory) {
	if !dir.MemberExists(memberID) {
		return
	}
	s.View = ViewEditor
	s.SelectedMemberID = memberID
	s.SelectedLogID = ""
}

// SelectLog opens the editor on an existing log. The log's owning member
// must resolve; otherwise the transition is a no-op and the current screen
// stays as-is.
func (s *State) SelectLog(logID, ownerMemberID string, dir Directory) {
	if logID == "" || !dir.MemberExists(ownerMemberID) {
		return
	}
	s.View = ViewEditor
	s.SelectedMemberID = ownerMemberID
	s.SelectedLogID = logID
}

// SaveLog is emitted by the editor after a successful persistence and
// returns to the member detail screen, the editor's conventional
// predecessor.
func (s *State) SaveLog() {
	if s.View != ViewEditor {
		return
	}
	s.Navigate(ViewMemberDetail)
}

// Back walks the fixed predecessor edge: editor goes back to member detail,
// member detail back to the members list. There is no general history stack.
func (s *State) Back() {
	switch s.View {
	case ViewEditor:
		s.Navigate(ViewMemberDetail)
	case ViewMemberDetail:
		s.Navigate(ViewMembers)
		s.SelectedMemberID = ""
	}
}

// SetScope updates the admin visibility scope without changing the view.
// The scope persists across navigation.
func (s *State) SetScope(scope visibility.Scope) {
	if !visibility.ValidScope(scope) {
		return
	}
	s.AdminViewScope = scope
}

// Consistent reports the structural invariant: a selected log always comes
// with the member that owns it. Every transition above preserves it; the
// check exists for handlers to assert after deserializing session state.
func (s State) Consistent() bool {
	if s.SelectedLogID != "" && s.SelectedMemberID == "" {
		return false
	}
	return true
}
