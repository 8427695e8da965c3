package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resihub/community-system/internal/core/domain"
)

// RequireRole rejects requests whose authenticated role is not in the
// allowed set. Runs after Auth, which puts the role into context.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if _, ok := allowed[domain.Role(role)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]any{
					"success": false,
					"error":   "forbidden",
				})
			}
			return next(c)
		}
	}
}
