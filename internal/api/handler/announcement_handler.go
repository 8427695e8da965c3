package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/ports"
)

// AnnouncementHandler handles community notice endpoints.
type AnnouncementHandler struct {
	announcementService ports.AnnouncementService
}

func NewAnnouncementHandler(announcementService ports.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

type updateAnnouncementRequest struct {
	Title       *string    `json:"title"`
	Body        *string    `json:"body"`
	TargetRoles *[]string  `json:"target_roles"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// Create handles POST /v1/announcements. Admin only. The body is
// multipart/form-data so attachments can ride along; target_roles is a
// comma-separated list and an empty list targets everyone.
func (h *AnnouncementHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	input := ports.CreateAnnouncementInput{
		Title:       c.FormValue("title"),
		Body:        c.FormValue("body"),
		TargetRoles: parseRoles(c.FormValue("target_roles")),
	}
	if raw := c.FormValue("expires_at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "expires_at must be RFC 3339")
		}
		input.ExpiresAt = &t
	}

	files, closeFiles, err := formFiles(c, "attachments")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}
	defer closeFiles()
	input.Attachments = files

	announcement, err := h.announcementService.Create(c.Request().Context(), actor, input)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, announcement)
}

// Get handles GET /v1/announcements/:id. Announcements outside the
// actor's visibility read as not found, not forbidden.
func (h *AnnouncementHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	announcement, err := h.announcementService.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, announcement)
}

// List handles GET /v1/announcements, filtered to the actor's role and
// unexpired records for non-admins.
func (h *AnnouncementHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	res, err := h.announcementService.List(c.Request().Context(), actor, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, pagedResponse{
		Items:      res.Items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Update handles PATCH /v1/announcements/:id. Admin only.
func (h *AnnouncementHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateAnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	input := ports.UpdateAnnouncementInput{
		Title:     req.Title,
		Body:      req.Body,
		ExpiresAt: req.ExpiresAt,
	}
	if req.TargetRoles != nil {
		roles := make([]domain.Role, 0, len(*req.TargetRoles))
		for _, r := range *req.TargetRoles {
			roles = append(roles, domain.Role(r))
		}
		input.TargetRoles = &roles
	}

	announcement, err := h.announcementService.Update(c.Request().Context(), actor, c.Param("id"), input)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, announcement)
}

// Delete handles DELETE /v1/announcements/:id. Admin only.
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.announcementService.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, "announcement deleted")
}

func parseRoles(raw string) []domain.Role {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	roles := make([]domain.Role, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, domain.Role(p))
		}
	}
	return roles
}
