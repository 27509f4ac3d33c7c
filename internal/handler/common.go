// Package handler contains the HTTP handlers for the ticketing API:
// catalog CRUD for viewers, tickets, orders and sellers, avatar image
// endpoints and staff authentication.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

var errInvalidID = errors.New("invalid id")

// parseID reads the :id path parameter as uint64. On a non-numeric value
// it writes the 400 response itself and returns a non-nil error so the
// handler just returns it; the response is already committed by then.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		return 0, errInvalidID
	}
	return id, nil
}
