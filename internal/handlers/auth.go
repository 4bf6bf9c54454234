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
)

// AuthHandler coordinates the identity boundary: the external provider has
// already verified the email; this layer enforces the domain allow-list and
// links the identity to a member record.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login accepts an external identity assertion and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email  string `json:"email" binding:"required,email"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sess, err := h.authService.Login(services.LoginInput{
		Email:  req.Email,
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailRequired):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrDomainNotAllowed):
			// Forced sign-out: the violating identity never gets a session.
			apierrors.DomainNotAllowed(c, "")
		default:
			apierrors.ServiceUnavailable(c, "")
		}
		return
	}

	// A new identity starts from a clean slate: any state left by a
	// previous login on this session is discarded wholesale.
	session := sessions.Default(c)
	session.Clear()
	session.Set(constants.ContextKeyEmail, req.Email)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	if !sess.Resolved() {
		// Authenticated but not registered as a member yet. The session
		// stands so the explanatory screen can offer logout.
		c.JSON(http.StatusOK, gin.H{"provisioned": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provisioned": true,
		"session":     dto.ToSessionDTO(sess),
	})
}

// Logout discards the session and everything in it, including navigation
// state.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the resolved member and role flags for the session.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	email, ok := middleware.GetEmail(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	sess, err := h.authService.ResolveSession(email)
	if err != nil {
		apierrors.ServiceUnavailable(c, "")
		return
	}
	if !sess.Resolved() {
		apierrors.NotProvisioned(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionDTO(sess))
}
