package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/ports"
)

// ComplaintHandler handles the complaint lifecycle endpoints.
type ComplaintHandler struct {
	complaintService ports.ComplaintService
}

func NewComplaintHandler(complaintService ports.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress resolved cancelled"`
}

type addNoteRequest struct {
	Content    string `json:"content" validate:"required"`
	IsInternal bool   `json:"is_internal"`
}

type feedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

// Create handles POST /v1/complaints. The body is multipart/form-data so
// images can ride along with the fields; the submitter is always the
// acting user, whatever the form claims.
func (h *ComplaintHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	input := ports.CreateComplaintInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    domain.ComplaintCategory(c.FormValue("category")),
		Priority:    domain.ComplaintPriority(c.FormValue("priority")),
	}
	if b, f, r := c.FormValue("building"), c.FormValue("floor"), c.FormValue("room"); b != "" || f != "" || r != "" {
		input.Location = &domain.Location{Building: b, Floor: f, Room: r}
	}

	files, closeFiles, err := formFiles(c, "images")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}
	defer closeFiles()
	input.Images = files

	complaint, err := h.complaintService.Create(c.Request().Context(), actor, input)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, complaint)
}

// Get handles GET /v1/complaints/:id under the actor's visibility scope.
func (h *ComplaintHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	complaint, err := h.complaintService.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, complaint)
}

// List handles GET /v1/complaints with status/priority/category filters.
// The assignee_id filter only narrows results for admins.
func (h *ComplaintHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	res, err := h.complaintService.List(c.Request().Context(), actor, ports.ListComplaintsInput{
		Status:     domain.ComplaintStatus(c.QueryParam("status")),
		Priority:   domain.ComplaintPriority(c.QueryParam("priority")),
		Category:   domain.ComplaintCategory(c.QueryParam("category")),
		AssigneeID: c.QueryParam("assignee_id"),
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

// UpdateStatus handles PATCH /v1/complaints/:id.
func (h *ComplaintHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	complaint, err := h.complaintService.UpdateStatus(c.Request().Context(), actor, c.Param("id"), domain.ComplaintStatus(req.Status))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, complaint)
}

// AddNote handles POST /v1/complaints/:id/notes. Staff and admin only;
// internal notes never surface to residents.
func (h *ComplaintHandler) AddNote(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req addNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	complaint, err := h.complaintService.AddNote(c.Request().Context(), actor, c.Param("id"), req.Content, req.IsInternal)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, complaint)
}

// SubmitFeedback handles POST /v1/complaints/:id/feedback. Submitter only,
// resolved complaints only; resubmission overwrites.
func (h *ComplaintHandler) SubmitFeedback(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	complaint, err := h.complaintService.SubmitFeedback(c.Request().Context(), actor, c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, complaint)
}

// formFiles opens every uploaded file under the given multipart field and
// returns them as service inputs plus a single close function. A request
// with no multipart body yields no files and no error.
func formFiles(c echo.Context, field string) ([]ports.ImageUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart || err == http.ErrMissingBoundary {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	var uploads []ports.ImageUpload
	for _, fh := range form.File[field] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		uploads = append(uploads, ports.ImageUpload{Name: fh.Filename, Reader: f})
	}

	return uploads, closeAll, nil
}
