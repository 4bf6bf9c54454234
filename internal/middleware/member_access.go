package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/keithshino/one-on-one-supporter/internal/constants"
	apierrors "github.com/keithshino/one-on-one-supporter/internal/errors"
	"github.com/keithshino/one-on-one-supporter/internal/models"
	"github.com/keithshino/one-on-one-supporter/internal/services"
	"github.com/keithshino/one-on-one-supporter/internal/visibility"
)

// RequireMemberLogAccess guards a member's meeting history behind the
// detail-tier rule: self, admin, or the member's direct manager. Profiles
// can be listed company-wide; this gate covers only meeting content.
func RequireMemberLogAccess(memberService *services.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		target, err := memberService.Get(c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrMemberNotFound) {
				apierrors.NotFound(c, "Member not found")
			} else {
				apierrors.ServiceUnavailable(c, "")
			}
			c.Abort()
			return
		}

		if !visibility.CanViewLogs(sess, target) {
			apierrors.Forbidden(c, "No access to this member's meeting history")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTargetMember, *target)
		c.Next()
	}
}

// GetTargetMember retrieves the member loaded by RequireMemberLogAccess
func GetTargetMember(c *gin.Context) (models.Member, bool) {
	v, exists := c.Get(constants.ContextKeyTargetMember)
	if !exists {
		return models.Member{}, false
	}
	member, ok := v.(models.Member)
	return member, ok
}
