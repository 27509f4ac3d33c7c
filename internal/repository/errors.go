// Package repository contains data access logic separated from HTTP
// handlers. Each entity gets its own repo type over *sql.DB with raw SQL
// kept portable across the two supported drivers (MySQL and SQLite).
// Sentinel values defined here let handlers distinguish failure scenarios
// without string matching: not-found errors map to HTTP 404 and
// ErrConflict signals that an operation cannot proceed because of
// dependent records (e.g. deleting a viewer that still has orders).
package repository

import (
	"errors"
	"strings"
)

// ErrViewerNotFound is returned when a viewer id does not resolve to a row.
var ErrViewerNotFound = errors.New("viewer not found")

// ErrSellerNotFound is returned when a seller id does not resolve to a row.
var ErrSellerNotFound = errors.New("seller not found")

// ErrTicketNotFound is returned when a ticket id does not resolve to a row.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrOrderNotFound is returned when an order id does not resolve to a row.
var ErrOrderNotFound = errors.New("order not found")

// ErrConflict is returned when a write cannot proceed because of
// conflicting state, such as deleting a record that other rows still
// reference or creating an order against ids that do not exist.
var ErrConflict = errors.New("conflict")

// isFKViolation matches foreign key errors for both supported drivers:
// MySQL errors 1451/1452 and SQLite's "FOREIGN KEY constraint failed".
func isFKViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key") || strings.Contains(msg, "1451") || strings.Contains(msg, "1452")
}
