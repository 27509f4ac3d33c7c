package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinelane/ticketing/internal/image"
)

// Seller mirrors the 'sellers' table. Box-office sellers carry a position
// and a salary on top of the common person fields, and an avatar behind
// the same dual image reference as viewers.
type Seller struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Age       int     `json:"age"`
	Gender    string  `json:"gender"`
	Position  string  `json:"position,omitempty"`
	Salary    float64 `json:"salary,omitempty"`
	Image     []byte  `json:"-"`
	ImagePath string  `json:"image_path,omitempty"`
}

type SellerRepo struct{ DB *sql.DB }

func NewSellerRepo(db *sql.DB) *SellerRepo { return &SellerRepo{DB: db} }

// Create inserts a seller and populates its ID.
func (r *SellerRepo) Create(ctx context.Context, s *Seller) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sellers (name, age, gender, position, salary) VALUES (?,?,?,?,?)",
		s.Name, s.Age, s.Gender, s.Position, s.Salary)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a seller by id without the image bytes.
func (r *SellerRepo) GetByID(ctx context.Context, id uint64) (*Seller, error) {
	var (
		s    Seller
		path sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, age, gender, position, salary, image_path FROM sellers WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.Name, &s.Age, &s.Gender, &s.Position, &s.Salary, &path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	s.ImagePath = path.String
	return &s, nil
}

// List returns all sellers ordered by id.
func (r *SellerRepo) List(ctx context.Context) ([]*Seller, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, age, gender, position, salary, image_path FROM sellers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Seller{}
	for rows.Next() {
		var (
			s    Seller
			path sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Age, &s.Gender, &s.Position, &s.Salary, &path); err != nil {
			return nil, err
		}
		s.ImagePath = path.String
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a seller.
func (r *SellerRepo) Update(ctx context.Context, s *Seller) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sellers SET name=?, age=?, gender=?, position=?, salary=? WHERE id=?",
		s.Name, s.Age, s.Gender, s.Position, s.Salary, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSellerNotFound
	}
	return nil
}

// Delete removes a seller row. Callers that use the referenced image
// strategy must release the seller's attachment first; the row itself
// knows nothing about files on disk.
func (r *SellerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sellers WHERE id=?", id)
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
		return ErrSellerNotFound
	}
	return nil
}

// ImageRef reads the seller's current attachment reference. Implements
// image.OwnerStore.
func (r *SellerRepo) ImageRef(ctx context.Context, id uint64) (image.Ref, error) {
	var (
		data []byte
		path sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT image, image_path FROM sellers WHERE id=? LIMIT 1",
		id).Scan(&data, &path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return image.Ref{}, image.ErrOwnerNotFound
		}
		return image.Ref{}, err
	}
	return image.Ref{Data: data, Path: path.String}, nil
}

// SetImageRef persists a new attachment reference on the seller row.
// Implements image.OwnerStore.
func (r *SellerRepo) SetImageRef(ctx context.Context, id uint64, ref image.Ref) error {
	var pathArg any
	if ref.Path != "" {
		pathArg = ref.Path
	}
	var dataArg any
	if len(ref.Data) > 0 {
		dataArg = ref.Data
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sellers SET image=?, image_path=? WHERE id=?",
		dataArg, pathArg, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return image.ErrOwnerNotFound
	}
	return nil
}
