package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resihub/community-system/internal/core/ports"
)

// DashboardHandler serves the role-scoped statistics view.
type DashboardHandler struct {
	dashboardService ports.DashboardService
}

func NewDashboardHandler(dashboardService ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats handles GET /v1/dashboard. Residents see their own
// complaints, staff their assigned ones, admins everything plus the
// per-staff performance table.
func (h *DashboardHandler) Stats(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	stats, err := h.dashboardService.Stats(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, stats)
}
