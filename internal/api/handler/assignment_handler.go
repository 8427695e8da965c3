package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/ports"
)

// AssignmentHandler exposes the assignment ledger. Creating an assignment
// delegates to the complaint service so the complaint projection and the
// ledger record move together.
type AssignmentHandler struct {
	assignmentService ports.AssignmentService
	complaintService  ports.ComplaintService
}

func NewAssignmentHandler(assignmentService ports.AssignmentService, complaintService ports.ComplaintService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService, complaintService: complaintService}
}

type createAssignmentRequest struct {
	ComplaintID string     `json:"complaint_id" validate:"required"`
	AssignedTo  string     `json:"assigned_to" validate:"required"`
	DueDate     *time.Time `json:"due_date"`
	Notes       string     `json:"notes"`
}

// Create handles POST /v1/assignments. Admin only.
func (h *AssignmentHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	assignment, err := h.complaintService.AssignStaff(c.Request().Context(), actor, ports.AssignStaffInput{
		ComplaintID: req.ComplaintID,
		StaffID:     req.AssignedTo,
		DueDate:     req.DueDate,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, assignment)
}

// List handles GET /v1/assignments. Staff see their own assignments,
// admins see everything; residents are rejected by the service.
func (h *AssignmentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	res, err := h.assignmentService.List(c.Request().Context(), actor, ports.ListAssignmentsInput{
		Status: domain.AssignmentStatus(c.QueryParam("status")),
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
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
