package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinelane/ticketing/internal/image"
	"github.com/cinelane/ticketing/internal/repository"
)

// SellerHandler bundles dependencies for seller endpoints.
type SellerHandler struct {
	Repo   *repository.SellerRepo
	Images *image.Manager
}

func NewSellerHandler(repo *repository.SellerRepo, images *image.Manager) *SellerHandler {
	return &SellerHandler{Repo: repo, Images: images}
}

type sellerReq struct {
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	Position string  `json:"position"`
	Salary   float64 `json:"salary"`
}

func (r *sellerReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Gender = strings.TrimSpace(r.Gender)
	r.Position = strings.TrimSpace(r.Position)
	switch {
	case r.Name == "":
		return "name is required"
	case r.Age <= 0:
		return "age must be positive"
	case r.Gender == "":
		return "gender is required"
	case r.Salary < 0:
		return "salary cannot be negative"
	}
	return ""
}

// List handles GET /v1/sellers.
func (h *SellerHandler) List(c echo.Context) error {
	items, err := h.Repo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/sellers/:id.
func (h *SellerHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	s, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSellerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seller not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, s)
}

// Create handles POST /v1/sellers.
func (h *SellerHandler) Create(c echo.Context) error {
	var req sellerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	s := &repository.Seller{
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		Position: req.Position,
		Salary:   req.Salary,
	}
	if err := h.Repo.Create(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create seller"})
	}
	return c.JSON(http.StatusCreated, s)
}

// Update handles PUT /v1/sellers/:id.
func (h *SellerHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req sellerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	s := &repository.Seller{
		ID:       id,
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		Position: req.Position,
		Salary:   req.Salary,
	}
	if err := h.Repo.Update(c.Request().Context(), s); err != nil {
		if errors.Is(err, repository.ErrSellerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seller not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/sellers/:id, releasing the seller's avatar
// blob before the row is removed.
func (h *SellerHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.Images.Delete(ctx, id); err != nil && !errors.Is(err, image.ErrNotFound) {
		if errors.Is(err, image.ErrOwnerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seller not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not release image"})
	}
	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSellerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seller not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seller has orders"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Seller deleted successfully"})
}
