package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/ports"
)

// FeeHandler handles monthly fee endpoints. Every route is admin only;
// the RequireRole middleware guards the group and the service re-checks.
type FeeHandler struct {
	feeService ports.FeeService
}

func NewFeeHandler(feeService ports.FeeService) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

type createFeeRequest struct {
	ResidentID  string     `json:"resident_id" validate:"required"`
	Month       int        `json:"month" validate:"required,gte=1,lte=12"`
	Year        int        `json:"year" validate:"required,gte=2000"`
	Amount      float64    `json:"amount" validate:"required,gt=0"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

type updateFeeRequest struct {
	Amount      *float64   `json:"amount"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

// Create handles POST /v1/monthly-fees. One fee per resident per month.
func (h *FeeHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createFeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fee, err := h.feeService.Create(c.Request().Context(), actor, ports.CreateFeeInput{
		ResidentID:  req.ResidentID,
		Month:       req.Month,
		Year:        req.Year,
		Amount:      req.Amount,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, fee)
}

// Get handles GET /v1/monthly-fees/:id.
func (h *FeeHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	fee, err := h.feeService.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, fee)
}

// List handles GET /v1/monthly-fees with resident, month, year and status filters.
func (h *FeeHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	res, err := h.feeService.List(c.Request().Context(), actor, ports.ListFeesFilter{
		ResidentID: c.QueryParam("resident_id"),
		Month:      queryInt(c, "month"),
		Year:       queryInt(c, "year"),
		Status:     domain.FeeStatus(c.QueryParam("status")),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
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

// Update handles PATCH /v1/monthly-fees/:id. Marking a fee paid stamps paid_at;
// marking it unpaid clears the stamp.
func (h *FeeHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateFeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	input := ports.UpdateFeeInput{
		Amount:      req.Amount,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := domain.FeeStatus(*req.Status)
		input.Status = &status
	}

	fee, err := h.feeService.Update(c.Request().Context(), actor, c.Param("id"), input)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, fee)
}
