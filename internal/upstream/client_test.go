package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"rentdash/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(ctx context.Context) (string, error) { return string(s), nil }

func testLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

const bookingsPage = `{
	"data": [
		{
			"id": 1,
			"invoice_number": "INV-001",
			"start_time": "2024-01-01T19:00:00Z",
			"end_time": "2024-01-01T21:00:00Z",
			"total_price": "150000",
			"status": "confirmed",
			"customer": {"name": "Budi", "phone": "0811"},
			"unit": {"name": "Room 1", "console": {"name": "PS5"}}
		},
		{"id": 2, "status": "pending", "total_price": 80000}
	],
	"current_page": 1,
	"total_items": 12,
	"per_page": 2,
	"last_page": 6
}`

func TestListBookings(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/bookings", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, bookingsPage)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticToken("tok-123"), testLogger())

	bookings, pg, err := c.ListBookings(context.Background(), ListParams{
		Page: 1, PerPage: 2, Status: "Confirmed", Month: 1, Year: 2024, Sort: models.SortAsc,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Contains(t, gotQuery, "status=Confirmed")
	assert.Contains(t, gotQuery, "month=1")

	require.Len(t, bookings, 2)
	assert.Equal(t, "Budi", bookings[0].CustomerName)
	assert.Equal(t, "Rp 150.000", bookings[0].TotalDisplay)
	assert.Equal(t, "N/A", bookings[1].CustomerName)
	assert.Equal(t, "-", bookings[1].StartTime)

	assert.Equal(t, models.Pagination{Page: 1, PerPage: 2, TotalItems: 12, TotalPages: 6}, pg)
}

func TestListBookingsOmitsAuthWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		io.WriteString(w, `{"data": []}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticToken(""), testLogger())
	_, _, err := c.ListBookings(context.Background(), ListParams{})
	require.NoError(t, err)
}

func TestGetBookingNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "booking not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, testLogger())
	_, err := c.GetBooking(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMutationErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"message": "start_time must be in the future"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, testLogger())
	_, err := c.CreateBooking(context.Background(), BookingInput{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "start_time must be in the future", apiErr.Message)
}

func TestCreateUserDecodesRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var input UserInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "dewi", input.Username)
		io.WriteString(w, `{"data": {"id": 5, "name": "Dewi", "username": "dewi", "role": "admin"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, testLogger())
	user, err := c.CreateUser(context.Background(), UserInput{Name: "Dewi", Username: "dewi", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestRedisReadThroughCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		io.WriteString(w, bookingsPage)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, testLogger())
	c.UseRedisCache(rdb, time.Minute)

	p := ListParams{Page: 1, PerPage: 2}
	first, _, err := c.ListBookings(context.Background(), p)
	require.NoError(t, err)
	second, _, err := c.ListBookings(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, first, second)

	// A different argument set bypasses the cached page.
	_, _, err = c.ListBookings(context.Background(), ListParams{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestListParamsAll(t *testing.T) {
	p := ListParams{Page: 4, PerPage: 10, Search: "budi", Status: "Pending"}
	all := p.All(500)

	assert.Equal(t, 1, all.Page)
	assert.Equal(t, 500, all.PerPage)
	assert.Empty(t, all.Search)
	assert.Equal(t, "Pending", all.Status)
}
