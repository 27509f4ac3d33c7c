package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinelane/ticketing/internal/image"
)

// Viewer mirrors the 'viewers' table. The avatar lives either inline in
// the image column or on disk behind image_path, never both; the Image
// bytes are excluded from JSON responses and served by the image
// endpoints instead.
type Viewer struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	Image     []byte `json:"-"`
	ImagePath string `json:"image_path,omitempty"`
}

type ViewerRepo struct{ DB *sql.DB }

func NewViewerRepo(db *sql.DB) *ViewerRepo { return &ViewerRepo{DB: db} }

// Create inserts a viewer and populates its ID.
func (r *ViewerRepo) Create(ctx context.Context, v *Viewer) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO viewers (name, age, gender) VALUES (?,?,?)",
		v.Name, v.Age, v.Gender)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a viewer by id without the image bytes.
func (r *ViewerRepo) GetByID(ctx context.Context, id uint64) (*Viewer, error) {
	var (
		v    Viewer
		path sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, age, gender, image_path FROM viewers WHERE id=? LIMIT 1",
		id).Scan(&v.ID, &v.Name, &v.Age, &v.Gender, &path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrViewerNotFound
		}
		return nil, err
	}
	v.ImagePath = path.String
	return &v, nil
}

// List returns all viewers ordered by id.
func (r *ViewerRepo) List(ctx context.Context) ([]*Viewer, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, age, gender, image_path FROM viewers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Viewer{}
	for rows.Next() {
		var (
			v    Viewer
			path sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.Name, &v.Age, &v.Gender, &path); err != nil {
			return nil, err
		}
		v.ImagePath = path.String
		out = append(out, &v)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a viewer. The image reference is
// only touched through SetImageRef.
func (r *ViewerRepo) Update(ctx context.Context, v *Viewer) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE viewers SET name=?, age=?, gender=? WHERE id=?",
		v.Name, v.Age, v.Gender, v.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrViewerNotFound
	}
	return nil
}

// Delete removes a viewer row. ErrConflict means orders still reference
// the viewer.
func (r *ViewerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM viewers WHERE id=?", id)
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
		return ErrViewerNotFound
	}
	return nil
}

// ImageRef reads the viewer's current attachment reference. Implements
// image.OwnerStore.
func (r *ViewerRepo) ImageRef(ctx context.Context, id uint64) (image.Ref, error) {
	var (
		data []byte
		path sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT image, image_path FROM viewers WHERE id=? LIMIT 1",
		id).Scan(&data, &path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return image.Ref{}, image.ErrOwnerNotFound
		}
		return image.Ref{}, err
	}
	return image.Ref{Data: data, Path: path.String}, nil
}

// SetImageRef persists a new attachment reference on the viewer row. A
// zero ref clears both columns. Implements image.OwnerStore.
func (r *ViewerRepo) SetImageRef(ctx context.Context, id uint64, ref image.Ref) error {
	var pathArg any
	if ref.Path != "" {
		pathArg = ref.Path
	}
	var dataArg any
	if len(ref.Data) > 0 {
		dataArg = ref.Data
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE viewers SET image=?, image_path=? WHERE id=?",
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
