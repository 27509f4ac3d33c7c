package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cinelane/ticketing/internal/database"
	"github.com/cinelane/ticketing/internal/image"
)

// newTestDB opens a fresh in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, "sqlite"))
	return db
}

func seedCatalog(t *testing.T, db *sql.DB) (v *Viewer, tk *Ticket, s1, s2 *Seller) {
	t.Helper()
	ctx := context.Background()

	v = &Viewer{Name: "John Doe", Age: 30, Gender: "male"}
	require.NoError(t, NewViewerRepo(db).Create(ctx, v))

	tk = &Ticket{
		MovieTitle: "Avengers: Endgame",
		SeatNumber: "A10",
		ShowTime:   time.Date(2025, 1, 25, 18, 30, 0, 0, time.UTC),
	}
	require.NoError(t, NewTicketRepo(db).Create(ctx, tk))

	sellers := NewSellerRepo(db)
	s1 = &Seller{Name: "Alice", Age: 35, Gender: "female", Position: "Manager", Salary: 5000}
	s2 = &Seller{Name: "Bob", Age: 28, Gender: "male", Position: "Cashier", Salary: 3000}
	require.NoError(t, sellers.Create(ctx, s1))
	require.NoError(t, sellers.Create(ctx, s2))
	return v, tk, s1, s2
}

func TestViewerCRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewViewerRepo(db)
	ctx := context.Background()

	v := &Viewer{Name: "Jane Smith", Age: 25, Gender: "female"}
	require.NoError(t, repo.Create(ctx, v))
	require.NotZero(t, v.ID)

	got, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane Smith", got.Name)

	v.Name = "Jane Doe"
	v.Age = 26
	require.NoError(t, repo.Update(ctx, v))

	got, err = repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", got.Name)
	require.Equal(t, 26, got.Age)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, v.ID))
	_, err = repo.GetByID(ctx, v.ID)
	require.ErrorIs(t, err, ErrViewerNotFound)
	require.ErrorIs(t, repo.Delete(ctx, v.ID), ErrViewerNotFound)
}

func TestViewerImageRefRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewViewerRepo(db)
	ctx := context.Background()

	v := &Viewer{Name: "John", Age: 30, Gender: "male"}
	require.NoError(t, repo.Create(ctx, v))

	ref, err := repo.ImageRef(ctx, v.ID)
	require.NoError(t, err)
	require.True(t, ref.IsZero())

	require.NoError(t, repo.SetImageRef(ctx, v.ID, image.Ref{Data: []byte("jpeg")}))
	ref, err = repo.ImageRef(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg"), ref.Data)
	require.Empty(t, ref.Path)

	require.NoError(t, repo.SetImageRef(ctx, v.ID, image.Ref{Path: "/uploads/viewers/1_1.png"}))
	ref, err = repo.ImageRef(ctx, v.ID)
	require.NoError(t, err)
	require.Empty(t, ref.Data)
	require.Equal(t, "/uploads/viewers/1_1.png", ref.Path)

	require.NoError(t, repo.SetImageRef(ctx, v.ID, image.Ref{}))
	ref, err = repo.ImageRef(ctx, v.ID)
	require.NoError(t, err)
	require.True(t, ref.IsZero())

	_, err = repo.ImageRef(ctx, 999)
	require.ErrorIs(t, err, image.ErrOwnerNotFound)
	require.ErrorIs(t, repo.SetImageRef(ctx, 999, image.Ref{}), image.ErrOwnerNotFound)
}

func TestViewerSetImageRefIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewViewerRepo(db)
	ctx := context.Background()

	v := &Viewer{Name: "Jane", Age: 28, Gender: "female"}
	require.NoError(t, repo.Create(ctx, v))

	ref := image.Ref{Data: []byte("same bytes")}
	require.NoError(t, repo.SetImageRef(ctx, v.ID, ref))

	// Re-saving an unchanged ref must not read as a missing owner.
	require.NoError(t, repo.SetImageRef(ctx, v.ID, ref))

	got, err := repo.ImageRef(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, []byte("same bytes"), got.Data)
}

func TestOrderFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	v, tk, s1, s2 := seedCatalog(t, db)

	orders := NewOrderRepo(db)
	jan := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, orders.Create(ctx, &Order{ViewerID: v.ID, TicketID: tk.ID, SellerID: s1.ID, OrderDate: jan}))
	require.NoError(t, orders.Create(ctx, &Order{ViewerID: v.ID, TicketID: tk.ID, SellerID: s2.ID, OrderDate: feb}))

	// No constraints returns everything.
	all, err := orders.ListFiltered(ctx, OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Date range.
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	got, err := orders.ListFiltered(ctx, OrderFilter{EndDate: &end})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, s1.ID, got[0].SellerID)

	// Seller attributes.
	got, err = orders.ListFiltered(ctx, OrderFilter{Position: "Cashier"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Bob", got[0].Seller.Name)

	min := 4000.0
	got, err = orders.ListFiltered(ctx, OrderFilter{MinSalary: &min})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Alice", got[0].Seller.Name)

	// Case-insensitive substring match on seller name.
	got, err = orders.ListFiltered(ctx, OrderFilter{SellerName: "ali"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Alice", got[0].Seller.Name)

	// Combined constraints that exclude everything.
	got, err = orders.ListFiltered(ctx, OrderFilter{Position: "Cashier", MinSalary: &min})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestOrderDetailJoins(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	v, tk, s1, _ := seedCatalog(t, db)

	orders := NewOrderRepo(db)
	o := &Order{ViewerID: v.ID, TicketID: tk.ID, SellerID: s1.ID, OrderDate: time.Now().UTC()}
	require.NoError(t, orders.Create(ctx, o))

	d, err := orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, "John Doe", d.Viewer.Name)
	require.Equal(t, "Avengers: Endgame", d.Ticket.MovieTitle)
	require.Equal(t, "Alice", d.Seller.Name)

	_, err = orders.GetByID(ctx, 9999)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestForeignKeyConflicts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	v, tk, s1, _ := seedCatalog(t, db)

	orders := NewOrderRepo(db)
	require.NoError(t, orders.Create(ctx, &Order{ViewerID: v.ID, TicketID: tk.ID, SellerID: s1.ID, OrderDate: time.Now().UTC()}))

	// Referenced rows cannot be deleted while the order exists.
	require.ErrorIs(t, NewViewerRepo(db).Delete(ctx, v.ID), ErrConflict)
	require.ErrorIs(t, NewTicketRepo(db).Delete(ctx, tk.ID), ErrConflict)
	require.ErrorIs(t, NewSellerRepo(db).Delete(ctx, s1.ID), ErrConflict)

	// An order against unknown ids is rejected by the database.
	err := orders.Create(ctx, &Order{ViewerID: 999, TicketID: tk.ID, SellerID: s1.ID, OrderDate: time.Now().UTC()})
	require.ErrorIs(t, err, ErrConflict)
}

func TestStaffCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewStaffRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Ops@Example.com", "password123", "STAFF", 4)
	require.NoError(t, err)
	require.NotZero(t, id)

	// Emails are normalized, so the same address in another case collides.
	_, err = repo.Create(ctx, "ops@example.com", "password456", "STAFF", 4)
	require.ErrorIs(t, err, ErrEmailExists)

	acct, err := repo.GetByEmail(ctx, "OPS@example.com")
	require.NoError(t, err)
	require.Equal(t, "ops@example.com", acct.Email)
	require.True(t, acct.IsActive)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	staffID, err := NewStaffRepo(db).Create(ctx, "a@b.com", "password123", "ADMIN", 4)
	require.NoError(t, err)

	tokens := NewTokenRepo(db)
	hash := "deadbeef"
	require.NoError(t, tokens.StoreRefresh(ctx, staffID, hash, time.Now().UTC().Add(time.Hour)))

	got, err := tokens.ValidateRefresh(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, staffID, got)

	require.NoError(t, tokens.RevokeByHash(ctx, hash))
	_, err = tokens.ValidateRefresh(ctx, hash)
	require.Error(t, err)

	// Expired tokens are rejected even when not revoked.
	require.NoError(t, tokens.StoreRefresh(ctx, staffID, "expired", time.Now().UTC().Add(-time.Minute)))
	_, err = tokens.ValidateRefresh(ctx, "expired")
	require.Error(t, err)
}
