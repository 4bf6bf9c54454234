package constants

// Session and context keys
const (
	SessionCookieName = "one_on_one_session"

	// ContextKeyEmail holds the verified email of the authenticated identity.
	ContextKeyEmail = "auth_email"
	// ContextKeyMemberID holds the resolved member id, when provisioned.
	ContextKeyMemberID = "auth_member_id"
	// ContextKeySession holds the resolved identity.Session for the request.
	ContextKeySession = "identity_session"
	// ContextKeyTargetMember holds the member loaded by access middleware.
	ContextKeyTargetMember = "target_member"
)

// Navigation state session keys
const (
	SessionKeyView           = "nav_view"
	SessionKeySelectedMember = "nav_selected_member"
	SessionKeySelectedLog    = "nav_selected_log"
	SessionKeyAdminScope     = "nav_admin_scope"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MaxTranscriptBytes caps uploaded meeting transcripts before they are sent
// to the summarizer.
const MaxTranscriptBytes = 1 << 20
