package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinelane/ticketing/internal/queue"
	"github.com/cinelane/ticketing/internal/repository"
	queue_publisher "github.com/cinelane/ticketing/internal/service"
)

// OrderHandler bundles dependencies for order endpoints. PublishEvents
// controls whether order creation emits an OrderPlacedEvent to the
// broker; publishing runs off the request path and failures are only
// logged by the publisher.
type OrderHandler struct {
	Repo          *repository.OrderRepo
	PublishEvents bool
}

func NewOrderHandler(repo *repository.OrderRepo, publishEvents bool) *OrderHandler {
	return &OrderHandler{Repo: repo, PublishEvents: publishEvents}
}

type orderReq struct {
	ViewerID  uint64    `json:"viewer_id"`
	TicketID  uint64    `json:"ticket_id"`
	SellerID  uint64    `json:"seller_id"`
	OrderDate time.Time `json:"order_date"`
}

func (r *orderReq) validate() string {
	switch {
	case r.ViewerID == 0:
		return "viewer_id is required"
	case r.TicketID == 0:
		return "ticket_id is required"
	case r.SellerID == 0:
		return "seller_id is required"
	case r.OrderDate.IsZero():
		return "order_date is required"
	}
	return ""
}

// List handles GET /v1/orders.
func (h *OrderHandler) List(c echo.Context) error {
	items, err := h.Repo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	d, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, d)
}

// Filter handles GET /v1/orders/filter. All query parameters are
// optional and combine with AND: start_date, end_date (RFC 3339 or
// YYYY-MM-DD), seller_id, position, min_salary, max_salary, seller_name
// (case-insensitive substring).
func (h *OrderHandler) Filter(c echo.Context) error {
	var f repository.OrderFilter

	if v := c.QueryParam("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
		}
		f.StartDate = &t
	}
	if v := c.QueryParam("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
		}
		f.EndDate = &t
	}
	if v := c.QueryParam("seller_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seller_id"})
		}
		f.SellerID = id
	}
	if v := c.QueryParam("min_salary"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_salary"})
		}
		f.MinSalary = &n
	}
	if v := c.QueryParam("max_salary"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_salary"})
		}
		f.MaxSalary = &n
	}
	f.Position = strings.TrimSpace(c.QueryParam("position"))
	f.SellerName = strings.TrimSpace(c.QueryParam("seller_name"))

	items, err := h.Repo.ListFiltered(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /v1/orders. A violated foreign key means the
// caller referenced a viewer, ticket or seller that does not exist.
func (h *OrderHandler) Create(c echo.Context) error {
	var req orderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	o := &repository.Order{
		ViewerID:  req.ViewerID,
		TicketID:  req.TicketID,
		SellerID:  req.SellerID,
		OrderDate: req.OrderDate,
	}
	ctx := c.Request().Context()
	if err := h.Repo.Create(ctx, o); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown viewer, ticket or seller"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create order"})
	}

	if h.PublishEvents {
		if d, err := h.Repo.GetByID(ctx, o.ID); err == nil {
			ev := queue.OrderPlacedEvent{
				OrderID:    d.ID,
				ViewerID:   d.ViewerID,
				ViewerName: d.Viewer.Name,
				TicketID:   d.TicketID,
				MovieTitle: d.Ticket.MovieTitle,
				SeatNumber: d.Ticket.SeatNumber,
				ShowTime:   d.Ticket.ShowTime.UTC().Format(time.RFC3339),
				SellerID:   d.SellerID,
				SellerName: d.Seller.Name,
				OrderDate:  d.OrderDate.UTC().Format(time.RFC3339),
			}
			go func() { _ = queue_publisher.PublishOrderPlaced(context.Background(), ev) }()
		}
	}

	return c.JSON(http.StatusCreated, o)
}

// Update handles PUT /v1/orders/:id.
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req orderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	o := &repository.Order{
		ID:        id,
		ViewerID:  req.ViewerID,
		TicketID:  req.TicketID,
		SellerID:  req.SellerID,
		OrderDate: req.OrderDate,
	}
	if err := h.Repo.Update(c.Request().Context(), o); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown viewer, ticket or seller"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, o)
}

// Delete handles DELETE /v1/orders/:id.
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Order deleted successfully"})
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
