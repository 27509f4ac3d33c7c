package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinelane/ticketing/internal/image"
	"github.com/cinelane/ticketing/internal/repository"
)

// ViewerHandler bundles dependencies for viewer endpoints. Images is the
// attachment manager wired with the viewer blob strategy; deleting a
// viewer releases its attachment through it before the row goes away.
type ViewerHandler struct {
	Repo   *repository.ViewerRepo
	Images *image.Manager
}

func NewViewerHandler(repo *repository.ViewerRepo, images *image.Manager) *ViewerHandler {
	return &ViewerHandler{Repo: repo, Images: images}
}

type viewerReq struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

func (r *viewerReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Gender = strings.TrimSpace(r.Gender)
	switch {
	case r.Name == "":
		return "name is required"
	case r.Age <= 0:
		return "age must be positive"
	case r.Gender == "":
		return "gender is required"
	}
	return ""
}

// List handles GET /v1/viewers.
func (h *ViewerHandler) List(c echo.Context) error {
	items, err := h.Repo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/viewers/:id.
func (h *ViewerHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	v, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrViewerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "viewer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, v)
}

// Create handles POST /v1/viewers.
func (h *ViewerHandler) Create(c echo.Context) error {
	var req viewerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	v := &repository.Viewer{Name: req.Name, Age: req.Age, Gender: req.Gender}
	if err := h.Repo.Create(c.Request().Context(), v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create viewer"})
	}
	return c.JSON(http.StatusCreated, v)
}

// Update handles PUT /v1/viewers/:id.
func (h *ViewerHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req viewerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	v := &repository.Viewer{ID: id, Name: req.Name, Age: req.Age, Gender: req.Gender}
	if err := h.Repo.Update(c.Request().Context(), v); err != nil {
		if errors.Is(err, repository.ErrViewerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "viewer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/viewers/:id. The viewer's attachment is
// released first so the referenced strategy cannot leak a file when the
// row disappears.
func (h *ViewerHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.Images.Delete(ctx, id); err != nil && !errors.Is(err, image.ErrNotFound) {
		if errors.Is(err, image.ErrOwnerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "viewer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not release image"})
	}
	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrViewerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "viewer not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "viewer has orders"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Viewer deleted successfully"})
}
