package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resihub/community-system/internal/api/middleware"
	"github.com/resihub/community-system/internal/core/domain"
)

// ctxActor builds the acting user from the claims the Auth middleware
// injected, with a fast-fail check before any service call:
//   - user_id and role must both be non-empty (presence proves the
//     middleware ran and the token carried an identity).
//   - an unknown role value means the token predates a role rename or was
//     minted elsewhere; reject with 401 rather than passing it downstream.
func ctxActor(c echo.Context) (domain.Actor, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	if id == "" || role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if !domain.ValidRole(domain.Role(role)) {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token carries an unknown role")
	}

	community, _ := c.Get(middleware.CtxCommunityID).(string)
	return domain.Actor{ID: id, Role: domain.Role(role), CommunityID: community}, nil
}
