package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelane/ticketing/internal/image"
	"github.com/cinelane/ticketing/internal/repository"
)

func newViewerHandler(t *testing.T) (*ViewerHandler, *echo.Echo) {
	t.Helper()
	f := newImageFixture(t)
	return NewViewerHandler(f.viewers, image.NewManager(image.InlineStore{}, f.viewers)), f.e
}

func jsonRequest(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestViewerCreateAndGet(t *testing.T) {
	h, e := newViewerHandler(t)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/viewers", `{"name":"John Doe","age":30,"gender":"male"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created repository.Viewer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	c, rec = jsonRequest(e, http.MethodGet, "/v1/viewers/:id", "")
	c.SetParamNames("id")
	c.SetParamValues(itoa(created.ID))
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "John Doe")
}

func TestViewerCreateValidation(t *testing.T) {
	h, e := newViewerHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"age":30,"gender":"male"}`},
		{"zero age", `{"name":"X","age":0,"gender":"male"}`},
		{"missing gender", `{"name":"X","age":30}`},
		{"malformed json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := jsonRequest(e, http.MethodPost, "/v1/viewers", tt.body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestViewerDeleteConfirmation(t *testing.T) {
	h, e := newViewerHandler(t)

	v := &repository.Viewer{Name: "Jane", Age: 25, Gender: "female"}
	require.NoError(t, h.Repo.Create(context.Background(), v))

	c, rec := jsonRequest(e, http.MethodDelete, "/v1/viewers/:id", "")
	c.SetParamNames("id")
	c.SetParamValues(itoa(v.ID))
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Viewer deleted successfully")

	c, rec = jsonRequest(e, http.MethodDelete, "/v1/viewers/:id", "")
	c.SetParamNames("id")
	c.SetParamValues(itoa(v.ID))
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewerGetInvalidID(t *testing.T) {
	h, e := newViewerHandler(t)

	c, rec := jsonRequest(e, http.MethodGet, "/v1/viewers/:id", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	assert.ErrorIs(t, h.Get(c), errInvalidID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderFilterQueryParsing(t *testing.T) {
	f := newImageFixture(t)
	ctx := context.Background()

	v := &repository.Viewer{Name: "John", Age: 30, Gender: "male"}
	require.NoError(t, f.viewers.Create(ctx, v))
	s := &repository.Seller{Name: "Alice", Age: 35, Gender: "female", Position: "Manager", Salary: 5000}
	require.NoError(t, f.sellers.Create(ctx, s))
	tk := &repository.Ticket{MovieTitle: "Inception", SeatNumber: "B15", ShowTime: time.Now().UTC()}
	require.NoError(t, repository.NewTicketRepo(f.db).Create(ctx, tk))

	orders := repository.NewOrderRepo(f.db)
	require.NoError(t, orders.Create(ctx, &repository.Order{
		ViewerID: v.ID, TicketID: tk.ID, SellerID: s.ID,
		OrderDate: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}))

	h := NewOrderHandler(orders, false)

	c, rec := jsonRequest(f.e, http.MethodGet, "/v1/orders/filter?seller_name=ali&min_salary=4000", "")
	require.NoError(t, h.Filter(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice")

	c, rec = jsonRequest(f.e, http.MethodGet, "/v1/orders/filter?start_date=2025-04-01", "")
	require.NoError(t, h.Filter(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	c, rec = jsonRequest(f.e, http.MethodGet, "/v1/orders/filter?seller_id=abc", "")
	require.NoError(t, h.Filter(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = jsonRequest(f.e, http.MethodGet, "/v1/orders/filter?start_date=notadate", "")
	require.NoError(t, h.Filter(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
