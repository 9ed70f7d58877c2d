package upstream

import (
	"context"
	"fmt"
	"net/http"

	"rentdash/internal/models"
	"rentdash/internal/transform"
)

// ListBookings fetches one page of bookings.
func (c *Client) ListBookings(ctx context.Context, p ListParams) ([]models.Booking, models.Pagination, error) {
	return listResource(ctx, c, models.ResourceBookings, "/api/v1/bookings", p, transform.Bookings)
}

// GetBooking fetches one booking by id.
func (c *Client) GetBooking(ctx context.Context, id int64) (models.Booking, error) {
	return getResource(ctx, c, models.ResourceBookings, "/api/v1/bookings", id, transform.Booking)
}

// BookingInput is the payload for booking create/update calls.
type BookingInput struct {
	CustomerID    int64  `json:"customer_id,omitempty"`
	UnitID        int64  `json:"unit_id,omitempty"`
	BookingType   string `json:"booking_type,omitempty"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Status        string `json:"status,omitempty"`
}

// CreateBooking creates a booking and returns the stored record.
func (c *Client) CreateBooking(ctx context.Context, input BookingInput) (models.Booking, error) {
	var wrap struct {
		Data transform.RawBooking `json:"data"`
	}
	if err := c.mutate(ctx, http.MethodPost, "/api/v1/bookings", input, &wrap); err != nil {
		return models.Booking{}, err
	}
	return transform.Booking(wrap.Data), nil
}

// UpdateBooking updates a booking and returns the stored record.
func (c *Client) UpdateBooking(ctx context.Context, id int64, input BookingInput) (models.Booking, error) {
	var wrap struct {
		Data transform.RawBooking `json:"data"`
	}
	path := fmt.Sprintf("/api/v1/bookings/%d", id)
	if err := c.mutate(ctx, http.MethodPut, path, input, &wrap); err != nil {
		return models.Booking{}, err
	}
	return transform.Booking(wrap.Data), nil
}

// DeleteBooking removes a booking.
func (c *Client) DeleteBooking(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", id), nil, nil)
}

// RescheduleInput moves a booking to a new time window.
type RescheduleInput struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// RescheduleBooking moves a booking and returns the stored record.
func (c *Client) RescheduleBooking(ctx context.Context, id int64, input RescheduleInput) (models.Booking, error) {
	var wrap struct {
		Data transform.RawBooking `json:"data"`
	}
	path := fmt.Sprintf("/api/v1/bookings/%d/reschedule", id)
	if err := c.mutate(ctx, http.MethodPost, path, input, &wrap); err != nil {
		return models.Booking{}, err
	}
	return transform.Booking(wrap.Data), nil
}

// RefundBooking refunds a booking's payment.
func (c *Client) RefundBooking(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/refund", id), nil, nil)
}
