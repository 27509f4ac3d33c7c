// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// OrderPlacedEvent is published when an order is successfully created. It
// carries enough information for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type OrderPlacedEvent struct {
	OrderID    uint64 `json:"order_id"`
	ViewerID   uint64 `json:"viewer_id"`
	ViewerName string `json:"viewer_name"`
	TicketID   uint64 `json:"ticket_id"`
	MovieTitle string `json:"movie_title"`
	SeatNumber string `json:"seat_number"`
	ShowTime   string `json:"show_time"`
	SellerID   uint64 `json:"seller_id"`
	SellerName string `json:"seller_name"`
	OrderDate  string `json:"order_date"`
}
