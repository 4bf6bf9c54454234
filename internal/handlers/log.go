package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keithshino/one-on-one-supporter/internal/dto"
	apierrors "github.com/keithshino/one-on-one-supporter/internal/errors"
	"github.com/keithshino/one-on-one-supporter/internal/middleware"
	"github.com/keithshino/one-on-one-supporter/internal/models"
	"github.com/keithshino/one-on-one-supporter/internal/services"
	"github.com/keithshino/one-on-one-supporter/internal/utils"
)

// LogHandler serves 1-on-1 meeting logs. There is no delete endpoint: logs
// are permanent and edits overwrite in place.
type LogHandler struct {
	logService *services.LogService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(logService *services.LogService) *LogHandler {
	return &LogHandler{
		logService: logService,
	}
}

// ListLogs returns the list-tier visible logs, date descending, paginated.
func (h *LogHandler) ListLogs(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	logs, err := h.logService.VisibleLogs(sess, requestScope(c))
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch logs")
		return
	}

	params := utils.GetPaginationParams(c)
	page := utils.Page(logs, params)

	c.JSON(http.StatusOK, dto.LogListResponse{
		Logs: dto.ToLogDTOs(page),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: len(logs),
		},
	})
}

// ListMemberLogs returns one member's history. Access was already settled by
// RequireMemberLogAccess.
func (h *LogHandler) ListMemberLogs(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	target, ok := middleware.GetTargetMember(c)
	if !ok {
		apierrors.InternalError(c, "Member not found in context")
		return
	}

	logs, err := h.logService.LogsForMember(sess, target.ID)
	if err != nil {
		respondLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": dto.ToLogDTOs(logs)})
}

// GetLog returns a single log.
func (h *LogHandler) GetLog(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	log, err := h.logService.Get(sess, c.Param("id"))
	if err != nil {
		respondLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLogDTO(*log))
}

// CreateLog records a meeting or schedules a planned placeholder.
func (h *LogHandler) CreateLog(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateLogRequest struct {
		MemberID          string      `json:"member_id" binding:"required"`
		Date              time.Time   `json:"date" binding:"required"`
		Mood              models.Mood `json:"mood"`
		Good              string      `json:"good"`
		More              string      `json:"more"`
		NextAction        string      `json:"next_action"`
		Memo              string      `json:"memo"`
		Summary           string      `json:"summary"`
		IsPlanned         bool        `json:"is_planned"`
		PhysicalCondition *int        `json:"physical_condition"`
		MentalCondition   *int        `json:"mental_condition"`
	}

	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	log, err := h.logService.Create(sess, services.CreateLogInput{
		MemberID:          req.MemberID,
		Date:              req.Date,
		Mood:              req.Mood,
		Good:              req.Good,
		More:              req.More,
		NextAction:        req.NextAction,
		Memo:              req.Memo,
		Summary:           req.Summary,
		IsPlanned:         req.IsPlanned,
		PhysicalCondition: req.PhysicalCondition,
		MentalCondition:   req.MentalCondition,
	})
	if err != nil {
		respondLogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLogDTO(*log))
}

// UpdateLog edits a log in place.
func (h *LogHandler) UpdateLog(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateLogRequest struct {
		Date              *time.Time   `json:"date"`
		Mood              *models.Mood `json:"mood"`
		Good              *string      `json:"good"`
		More              *string      `json:"more"`
		NextAction        *string      `json:"next_action"`
		Memo              *string      `json:"memo"`
		Summary           *string      `json:"summary"`
		IsPlanned         *bool        `json:"is_planned"`
		PhysicalCondition *int         `json:"physical_condition"`
		MentalCondition   *int         `json:"mental_condition"`
	}

	var req UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	log, err := h.logService.Update(sess, c.Param("id"), services.UpdateLogInput{
		Date:              req.Date,
		Mood:              req.Mood,
		Good:              req.Good,
		More:              req.More,
		NextAction:        req.NextAction,
		Memo:              req.Memo,
		Summary:           req.Summary,
		IsPlanned:         req.IsPlanned,
		PhysicalCondition: req.PhysicalCondition,
		MentalCondition:   req.MentalCondition,
	})
	if err != nil {
		respondLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLogDTO(*log))
}

// GetDashboard returns upcoming planned meetings and the month-bucketed
// completed history for the session's visible set.
func (h *LogHandler) GetDashboard(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	dashboard, err := h.logService.BuildDashboard(sess, requestScope(c), time.Now())
	if err != nil {
		apierrors.InternalError(c, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func respondLogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLogNotFound):
		apierrors.NotFound(c, "Log not found")
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, "Member not found")
	case errors.Is(err, services.ErrLogAccessDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrLogMemberReq),
		errors.Is(err, services.ErrLogDateReq),
		errors.Is(err, services.ErrInvalidMood),
		errors.Is(err, services.ErrInvalidCondition):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
