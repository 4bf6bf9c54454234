package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/keithshino/one-on-one-supporter/internal/constants"
	apierrors "github.com/keithshino/one-on-one-supporter/internal/errors"
	"github.com/keithshino/one-on-one-supporter/internal/middleware"
	"github.com/keithshino/one-on-one-supporter/internal/navigation"
	"github.com/keithshino/one-on-one-supporter/internal/services"
	"github.com/keithshino/one-on-one-supporter/internal/visibility"
)

// NavigationHandler exposes the screen-state machine over thin POST
// endpoints. The state itself lives in the server-side session, so it is
// discarded together with the identity on logout.
type NavigationHandler struct {
	memberService *services.MemberService
	logService    *services.LogService
}

// NewNavigationHandler creates a new NavigationHandler.
func NewNavigationHandler(memberService *services.MemberService, logService *services.LogService) *NavigationHandler {
	return &NavigationHandler{
		memberService: memberService,
		logService:    logService,
	}
}

// serviceDirectory adapts MemberService to the machine's lookup.
type serviceDirectory struct {
	svc *services.MemberService
}

func (d serviceDirectory) MemberExists(id string) bool {
	_, err := d.svc.Get(id)
	return err == nil
}

// loadState deserializes navigation state from the session, falling back to
// the initial state when absent or inconsistent.
func loadState(c *gin.Context) navigation.State {
	session := sessions.Default(c)
	state := navigation.New()

	if v, ok := session.Get(constants.SessionKeyView).(string); ok && navigation.ValidView(navigation.View(v)) {
		state.View = navigation.View(v)
	}
	if v, ok := session.Get(constants.SessionKeySelectedMember).(string); ok {
		state.SelectedMemberID = v
	}
	if v, ok := session.Get(constants.SessionKeySelectedLog).(string); ok {
		state.SelectedLogID = v
	}
	if v, ok := session.Get(constants.SessionKeyAdminScope).(string); ok && visibility.ValidScope(visibility.Scope(v)) {
		state.AdminViewScope = visibility.Scope(v)
	}

	if !state.Consistent() {
		state.SelectedLogID = ""
	}
	return state
}

// saveState serializes navigation state back into the session.
func saveState(c *gin.Context, state navigation.State) error {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyView, string(state.View))
	session.Set(constants.SessionKeySelectedMember, state.SelectedMemberID)
	session.Set(constants.SessionKeySelectedLog, state.SelectedLogID)
	session.Set(constants.SessionKeyAdminScope, string(state.AdminViewScope))
	return session.Save()
}

func (h *NavigationHandler) respondState(c *gin.Context, state navigation.State) {
	if err := saveState(c, state); err != nil {
		apierrors.InternalError(c, "Failed to save navigation state")
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetState returns the current navigation state.
func (h *NavigationHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, loadState(c))
}

// Navigate switches to a view.
func (h *NavigationHandler) Navigate(c *gin.Context) {
	type NavigateRequest struct {
		View string `json:"view" binding:"required"`
		// FromProfileAvatar marks the identity affordance, which opens the
		// viewer's own profile rather than a previously selected member's.
		FromProfileAvatar bool `json:"from_profile_avatar"`
	}

	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !navigation.ValidView(navigation.View(req.View)) {
		apierrors.BadRequest(c, "Unknown view")
		return
	}

	state := loadState(c)
	if navigation.View(req.View) == navigation.ViewProfile && req.FromProfileAvatar {
		state.NavigateMyProfile()
	} else {
		state.Navigate(navigation.View(req.View))
	}
	h.respondState(c, state)
}

// SelectMember opens a member's detail screen.
func (h *NavigationHandler) SelectMember(c *gin.Context) {
	h.selectMember(c, false)
}

// SelectMemberForProfile opens a member's profile from the directory.
func (h *NavigationHandler) SelectMemberForProfile(c *gin.Context) {
	h.selectMember(c, true)
}

func (h *NavigationHandler) selectMember(c *gin.Context, profile bool) {
	type SelectMemberRequest struct {
		MemberID string `json:"member_id" binding:"required"`
	}

	var req SelectMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	state := loadState(c)
	dir := serviceDirectory{svc: h.memberService}
	if profile {
		state.SelectMemberForProfile(req.MemberID, dir)
	} else {
		state.SelectMember(req.MemberID, dir)
	}
	h.respondState(c, state)
}

// CreateLog opens the editor for a new log about a member. An unresolvable
// member id leaves the state untouched.
func (h *NavigationHandler) CreateLog(c *gin.Context) {
	type CreateLogRequest struct {
		MemberID string `json:"member_id" binding:"required"`
	}

	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	state := loadState(c)
	state.CreateLog(req.MemberID, serviceDirectory{svc: h.memberService})
	h.respondState(c, state)
}

// SelectLog opens the editor on an existing log. A log whose owner no longer
// resolves leaves the state untouched; a log the session may not read is
// rejected.
func (h *NavigationHandler) SelectLog(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type SelectLogRequest struct {
		LogID string `json:"log_id" binding:"required"`
	}

	var req SelectLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	state := loadState(c)

	log, err := h.logService.Get(sess, req.LogID)
	switch {
	case err == nil:
		state.SelectLog(log.ID, log.MemberID, serviceDirectory{svc: h.memberService})
	case errors.Is(err, services.ErrLogNotFound), errors.Is(err, services.ErrMemberNotFound):
		// Stale or orphaned reference: stay on the current screen.
	case errors.Is(err, services.ErrLogAccessDenied):
		apierrors.Forbidden(c, err.Error())
		return
	default:
		apierrors.InternalError(c, "")
		return
	}

	h.respondState(c, state)
}

// SaveLog is the editor's post-persistence signal.
func (h *NavigationHandler) SaveLog(c *gin.Context) {
	state := loadState(c)
	state.SaveLog()
	h.respondState(c, state)
}

// Back walks the fixed predecessor edge.
func (h *NavigationHandler) Back(c *gin.Context) {
	state := loadState(c)
	state.Back()
	h.respondState(c, state)
}

// SetScope switches the admin between organization-wide and own-team
// visibility. Non-admins have no scope to switch.
func (h *NavigationHandler) SetScope(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	if !sess.IsAdmin {
		apierrors.Forbidden(c, "Only admins can switch the view scope")
		return
	}

	type SetScopeRequest struct {
		Scope string `json:"scope" binding:"required"`
	}

	var req SetScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !visibility.ValidScope(visibility.Scope(req.Scope)) {
		apierrors.BadRequest(c, "Scope must be all or team")
		return
	}

	state := loadState(c)
	state.SetScope(visibility.Scope(req.Scope))
	h.respondState(c, state)
}
