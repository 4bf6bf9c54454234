package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/keithshino/one-on-one-supporter/internal/constants"
	"github.com/keithshino/one-on-one-supporter/internal/dto"
	apierrors "github.com/keithshino/one-on-one-supporter/internal/errors"
	"github.com/keithshino/one-on-one-supporter/internal/middleware"
	"github.com/keithshino/one-on-one-supporter/internal/services"
	"github.com/keithshino/one-on-one-supporter/internal/visibility"
)

// MemberHandler serves member lists, the company directory, and admin CRUD.
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// requestScope picks the visibility scope for this request: an explicit
// query parameter wins, then the scope stored with the navigation state,
// then "all".
func requestScope(c *gin.Context) visibility.Scope {
	if q := visibility.Scope(c.Query("scope")); visibility.ValidScope(q) {
		return q
	}
	session := sessions.Default(c)
	if v, ok := session.Get(constants.SessionKeyAdminScope).(string); ok {
		if s := visibility.Scope(v); visibility.ValidScope(s) {
			return s
		}
	}
	return visibility.ScopeAll
}

// ListMembers returns the list-tier visible member set.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	members, err := h.memberService.List(sess, requestScope(c))
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch members")
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToMemberDTOs(members)})
}

// ListDirectory returns every member's profile for the company-wide
// directory screen. Meeting content stays behind the detail-tier gate.
func (h *MemberHandler) ListDirectory(c *gin.Context) {
	members, err := h.memberService.Directory()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch directory")
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToMemberDTOs(members)})
}

// GetMember returns one member's profile.
func (h *MemberHandler) GetMember(c *gin.Context) {
	member, err := h.memberService.Get(c.Param("id"))
	if err != nil {
		respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTO(*member))
}

// CreateMember registers a member. Admin only.
func (h *MemberHandler) CreateMember(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateMemberRequest struct {
		Name            string  `json:"name" binding:"required"`
		Role            string  `json:"role"`
		Department      string  `json:"department"`
		Email           string  `json:"email" binding:"required,email"`
		Avatar          string  `json:"avatar"`
		ManagerID       *string `json:"manager_id"`
		IsAdmin         bool    `json:"is_admin"`
		NextMeetingDate string  `json:"next_meeting_date"`
		JoinDate        string  `json:"join_date"`
		Dream           string  `json:"dream"`
		Enthusiasm      string  `json:"enthusiasm"`
		Career          string  `json:"career"`
	}

	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.memberService.Create(sess, services.CreateMemberInput{
		Name:            req.Name,
		Role:            req.Role,
		Department:      req.Department,
		Email:           req.Email,
		Avatar:          req.Avatar,
		ManagerID:       req.ManagerID,
		IsAdmin:         req.IsAdmin,
		NextMeetingDate: req.NextMeetingDate,
		JoinDate:        req.JoinDate,
		Dream:           req.Dream,
		Enthusiasm:      req.Enthusiasm,
		Career:          req.Career,
	})
	if err != nil {
		respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberDTO(*member))
}

// UpdateMember mutates a member: admins every field, members their own
// profile fields.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateMemberRequest struct {
		Name            *string `json:"name"`
		Role            *string `json:"role"`
		Department      *string `json:"department"`
		Email           *string `json:"email"`
		Avatar          *string `json:"avatar"`
		ManagerID       *string `json:"manager_id"`
		ClearManagerID  bool    `json:"clear_manager_id"`
		IsAdmin         *bool   `json:"is_admin"`
		NextMeetingDate *string `json:"next_meeting_date"`
		JoinDate        *string `json:"join_date"`
		Dream           *string `json:"dream"`
		Enthusiasm      *string `json:"enthusiasm"`
		Career          *string `json:"career"`
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.memberService.Update(sess, c.Param("id"), services.UpdateMemberInput{
		Name:            req.Name,
		Role:            req.Role,
		Department:      req.Department,
		Email:           req.Email,
		Avatar:          req.Avatar,
		ManagerID:       req.ManagerID,
		ClearManagerID:  req.ClearManagerID,
		IsAdmin:         req.IsAdmin,
		NextMeetingDate: req.NextMeetingDate,
		JoinDate:        req.JoinDate,
		Dream:           req.Dream,
		Enthusiasm:      req.Enthusiasm,
		Career:          req.Career,
	})
	if err != nil {
		respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTO(*member))
}

// DeleteMember removes a member. Their logs stay put.
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.memberService.Delete(sess, c.Param("id")); err != nil {
		respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

func respondMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, "Member not found")
	case errors.Is(err, services.ErrAdminOnly),
		errors.Is(err, services.ErrNotOwnProfile):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrMemberEmailReq),
		errors.Is(err, services.ErrManagerNotFound):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
