package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
	"github.com/resihub/community-system/internal/core/ports"
)

// UserHandler handles the account directory endpoints.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type createUserRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"required,oneof=resident staff admin"`
	Phone       string `json:"phone"`
	Apartment   string `json:"apartment"`
	Building    string `json:"building"`
	CommunityID string `json:"community_id"`
}

type updateUserRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Apartment   *string `json:"apartment"`
	Building    *string `json:"building"`
	Email       *string `json:"email"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"is_active"`
	CommunityID *string `json:"community_id"`
	Password    *string `json:"password"`
}

// Create handles POST /v1/users. Admin only; any role may be created.
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Create(c.Request().Context(), actor, ports.CreateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        domain.Role(req.Role),
		Phone:       req.Phone,
		Apartment:   req.Apartment,
		Building:    req.Building,
		CommunityID: req.CommunityID,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, user)
}

// List handles GET /v1/users with role, search and pagination filters.
func (h *UserHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	res, err := h.userService.List(c.Request().Context(), actor, ports.ListUsersInput{
		Role:   domain.Role(c.QueryParam("role")),
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

// Get handles GET /v1/users/:id. Non-admins can only fetch themselves.
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, user)
}

// Update handles PATCH /v1/users/:id. The service applies the role field
// mask, so unauthorized fields are silently dropped rather than rejected.
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	upd := policy.UserUpdate{
		Name:        req.Name,
		Phone:       req.Phone,
		Apartment:   req.Apartment,
		Building:    req.Building,
		Email:       req.Email,
		IsActive:    req.IsActive,
		CommunityID: req.CommunityID,
		Password:    req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		upd.Role = &role
	}

	user, err := h.userService.Update(c.Request().Context(), actor, c.Param("id"), upd)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:id. Admin only; self-delete is rejected.
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, "user deleted")
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed so the service's pagination defaults kick in.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
