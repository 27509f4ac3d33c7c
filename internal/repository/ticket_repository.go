package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Ticket mirrors the 'tickets' table. PurchaseTime is set when the ticket
// is sold and stays null until then.
type Ticket struct {
	ID           uint64     `json:"id"`
	MovieTitle   string     `json:"movie_title"`
	SeatNumber   string     `json:"seat_number"`
	PurchaseTime *time.Time `json:"purchase_time,omitempty"`
	ShowTime     time.Time  `json:"show_time"`
}

type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

// Create inserts a ticket and populates its ID.
func (r *TicketRepo) Create(ctx context.Context, t *Ticket) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tickets (movie_title, seat_number, purchase_time, show_time) VALUES (?,?,?,?)",
		t.MovieTitle, t.SeatNumber, t.PurchaseTime, t.ShowTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID fetches a ticket by id.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*Ticket, error) {
	var (
		t  Ticket
		pt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, movie_title, seat_number, purchase_time, show_time FROM tickets WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.MovieTitle, &t.SeatNumber, &pt, &t.ShowTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if pt.Valid {
		t.PurchaseTime = &pt.Time
	}
	return &t, nil
}

// List returns all tickets ordered by id.
func (r *TicketRepo) List(ctx context.Context) ([]*Ticket, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, movie_title, seat_number, purchase_time, show_time FROM tickets ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Ticket{}
	for rows.Next() {
		var (
			t  Ticket
			pt sql.NullTime
		)
		if err := rows.Scan(&t.ID, &t.MovieTitle, &t.SeatNumber, &pt, &t.ShowTime); err != nil {
			return nil, err
		}
		if pt.Valid {
			t.PurchaseTime = &pt.Time
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a ticket.
func (r *TicketRepo) Update(ctx context.Context, t *Ticket) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tickets SET movie_title=?, seat_number=?, purchase_time=?, show_time=? WHERE id=?",
		t.MovieTitle, t.SeatNumber, t.PurchaseTime, t.ShowTime, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// Delete removes a ticket row. ErrConflict means orders still reference
// the ticket.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", id)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}
