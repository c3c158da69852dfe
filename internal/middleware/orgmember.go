package middleware

import (
	"donation-service/internal/model"
	"donation-service/internal/repository"
	"donation-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MembershipKey holds the caller's *model.Membership for /org routes
const MembershipKey = "org_member"

// OrgMember resolves the caller's organization from their earliest
// membership. With roles given, the membership role must be one of them.
func OrgMember(members repository.MembershipRepository, roles ...model.MemberRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			userID, ok := UserID(c)
			if !ok {
				return forbidden(c, "authentication required")
			}

			m, err := members.FindFirstByUser(c.Request().Context(), userID)
			if err != nil {
				log.Error("Failed to load membership", zap.Error(err))
				return internalError(c)
			}
			if m == nil {
				log.Warn("Caller is not an organization member")
				return forbidden(c, "not a member of any organization")
			}
			if !m.HasRole(roles...) {
				log.Warn("Organization role denied",
					zap.Uint("org_id", m.OrgID),
					zap.String("role", string(m.Role)))
				return forbidden(c, "insufficient organization role")
			}

			c.Set(MembershipKey, m)
			return next(c)
		}
	}
}

// Membership returns the membership stored by OrgMember
func Membership(c echo.Context) (*model.Membership, bool) {
	m, ok := c.Get(MembershipKey).(*model.Membership)
	return m, ok
}
