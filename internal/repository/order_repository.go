package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Order mirrors the 'orders' table. Every order ties one viewer, one
// ticket and one seller together at a point in time.
type Order struct {
	ID        uint64    `json:"id"`
	ViewerID  uint64    `json:"viewer_id"`
	TicketID  uint64    `json:"ticket_id"`
	SellerID  uint64    `json:"seller_id"`
	OrderDate time.Time `json:"order_date"`
}

// OrderDetail is an order with its related records resolved, the shape
// list and get endpoints respond with.
type OrderDetail struct {
	Order
	Viewer Viewer `json:"viewer"`
	Ticket Ticket `json:"ticket"`
	Seller Seller `json:"seller"`
}

// OrderFilter narrows ListFiltered. Zero values mean "no constraint".
type OrderFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	SellerID   uint64
	Position   string
	MinSalary  *float64
	MaxSalary  *float64
	SellerName string
}

type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderSelect = `SELECT
		o.id, o.viewer_id, o.ticket_id, o.seller_id, o.order_date,
		v.id, v.name, v.age, v.gender, v.image_path,
		t.id, t.movie_title, t.seat_number, t.purchase_time, t.show_time,
		s.id, s.name, s.age, s.gender, s.position, s.salary, s.image_path
	FROM orders o
	JOIN viewers v ON v.id = o.viewer_id
	JOIN tickets t ON t.id = o.ticket_id
	JOIN sellers s ON s.id = o.seller_id`

func scanOrderDetail(scan func(dest ...any) error) (*OrderDetail, error) {
	var (
		d     OrderDetail
		vPath sql.NullString
		pt    sql.NullTime
		sPath sql.NullString
	)
	err := scan(
		&d.ID, &d.ViewerID, &d.TicketID, &d.SellerID, &d.OrderDate,
		&d.Viewer.ID, &d.Viewer.Name, &d.Viewer.Age, &d.Viewer.Gender, &vPath,
		&d.Ticket.ID, &d.Ticket.MovieTitle, &d.Ticket.SeatNumber, &pt, &d.Ticket.ShowTime,
		&d.Seller.ID, &d.Seller.Name, &d.Seller.Age, &d.Seller.Gender, &d.Seller.Position, &d.Seller.Salary, &sPath,
	)
	if err != nil {
		return nil, err
	}
	d.Viewer.ImagePath = vPath.String
	if pt.Valid {
		d.Ticket.PurchaseTime = &pt.Time
	}
	d.Seller.ImagePath = sPath.String
	return &d, nil
}

// Create inserts an order and populates its ID. Foreign keys are enforced
// by the database; ErrConflict means one of the referenced ids does not
// exist.
func (r *OrderRepo) Create(ctx context.Context, o *Order) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO orders (viewer_id, ticket_id, seller_id, order_date) VALUES (?,?,?,?)",
		o.ViewerID, o.TicketID, o.SellerID, o.OrderDate)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// GetByID fetches an order with viewer, ticket and seller resolved.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*OrderDetail, error) {
	row := r.DB.QueryRowContext(ctx, orderSelect+" WHERE o.id=? LIMIT 1", id)
	d, err := scanOrderDetail(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return d, nil
}

// List returns all orders with their related records resolved.
func (r *OrderRepo) List(ctx context.Context) ([]*OrderDetail, error) {
	return r.query(ctx, orderSelect+" ORDER BY o.id")
}

// ListFiltered returns orders narrowed by date range and seller
// attributes. The WHERE clause is assembled from the populated filter
// fields only.
func (r *OrderRepo) ListFiltered(ctx context.Context, f OrderFilter) ([]*OrderDetail, error) {
	where := []string{}
	args := []any{}

	if f.StartDate != nil {
		where = append(where, "o.order_date >= ?")
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		where = append(where, "o.order_date <= ?")
		args = append(args, *f.EndDate)
	}
	if f.SellerID != 0 {
		where = append(where, "o.seller_id = ?")
		args = append(args, f.SellerID)
	}
	if f.Position != "" {
		where = append(where, "s.position = ?")
		args = append(args, f.Position)
	}
	if f.MinSalary != nil {
		where = append(where, "s.salary >= ?")
		args = append(args, *f.MinSalary)
	}
	if f.MaxSalary != nil {
		where = append(where, "s.salary <= ?")
		args = append(args, *f.MaxSalary)
	}
	if f.SellerName != "" {
		where = append(where, "LOWER(s.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.SellerName)+"%")
	}

	q := orderSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY o.id"
	return r.query(ctx, q, args...)
}

func (r *OrderRepo) query(ctx context.Context, q string, args ...any) ([]*OrderDetail, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*OrderDetail{}
	for rows.Next() {
		d, err := scanOrderDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of an order.
func (r *OrderRepo) Update(ctx context.Context, o *Order) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET viewer_id=?, ticket_id=?, seller_id=?, order_date=? WHERE id=?",
		o.ViewerID, o.TicketID, o.SellerID, o.OrderDate, o.ID)
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
		return ErrOrderNotFound
	}
	return nil
}

// Delete removes an order row.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM orders WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
