package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/keithshino/one-on-one-supporter/internal/constants"
	apierrors "github.com/keithshino/one-on-one-supporter/internal/errors"
	"github.com/keithshino/one-on-one-supporter/internal/identity"
	"github.com/keithshino/one-on-one-supporter/internal/services"
)

// RequireAuth checks that a verified email is present in the session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		email := session.Get(constants.ContextKeyEmail)

		if email == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyEmail, email)
		c.Next()
	}
}

// RequireProvisioned resolves the session email to a member and derives the
// role flags for this request. An authenticated identity with no member
// record is blocked with NOT_PROVISIONED; a failed store read is surfaced as
// unavailable, never as "no match".
func RequireProvisioned(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := GetEmail(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		sess, err := authService.ResolveSession(email)
		if err != nil {
			apierrors.ServiceUnavailable(c, "")
			c.Abort()
			return
		}
		if !sess.Resolved() {
			apierrors.NotProvisioned(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeySession, sess)
		c.Set(constants.ContextKeyMemberID, sess.Self.ID)
		c.Next()
	}
}

// GetEmail retrieves the authenticated email from context
func GetEmail(c *gin.Context) (string, bool) {
	v, exists := c.Get(constants.ContextKeyEmail)
	if !exists {
		return "", false
	}
	email, ok := v.(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}

// GetSession retrieves the resolved identity session from context
func GetSession(c *gin.Context) (identity.Session, bool) {
	v, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return identity.Session{}, false
	}
	sess, ok := v.(identity.Session)
	if !ok {
		return identity.Session{}, false
	}
	return sess, true
}
