package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinelane/ticketing/internal/repository"
)

// TicketHandler bundles dependencies for ticket endpoints.
type TicketHandler struct {
	Repo *repository.TicketRepo
}

func NewTicketHandler(repo *repository.TicketRepo) *TicketHandler {
	return &TicketHandler{Repo: repo}
}

type ticketReq struct {
	MovieTitle   string     `json:"movie_title"`
	SeatNumber   string     `json:"seat_number"`
	PurchaseTime *time.Time `json:"purchase_time"`
	ShowTime     time.Time  `json:"show_time"`
}

func (r *ticketReq) validate() string {
	r.MovieTitle = strings.TrimSpace(r.MovieTitle)
	r.SeatNumber = strings.TrimSpace(r.SeatNumber)
	switch {
	case r.MovieTitle == "":
		return "movie_title is required"
	case r.SeatNumber == "":
		return "seat_number is required"
	case r.ShowTime.IsZero():
		return "show_time is required"
	}
	return ""
}

// List handles GET /v1/tickets.
func (h *TicketHandler) List(c echo.Context) error {
	items, err := h.Repo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/tickets/:id.
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	t, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, t)
}

// Create handles POST /v1/tickets.
func (h *TicketHandler) Create(c echo.Context) error {
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	t := &repository.Ticket{
		MovieTitle:   req.MovieTitle,
		SeatNumber:   req.SeatNumber,
		PurchaseTime: req.PurchaseTime,
		ShowTime:     req.ShowTime,
	}
	if err := h.Repo.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create ticket"})
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /v1/tickets/:id.
func (h *TicketHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	t := &repository.Ticket{
		ID:           id,
		MovieTitle:   req.MovieTitle,
		SeatNumber:   req.SeatNumber,
		PurchaseTime: req.PurchaseTime,
		ShowTime:     req.ShowTime,
	}
	if err := h.Repo.Update(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /v1/tickets/:id.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket has orders"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Ticket deleted successfully"})
}
