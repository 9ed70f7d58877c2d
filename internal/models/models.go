package models

import "time"

// Booking is the display shape of an upstream rental booking. Every field is
// defaulted by the transform layer; the zero value never reaches a renderer
// as a missing field.
type Booking struct {
	ID            int64   `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	BookingType   string  `json:"booking_type"`
	CustomerName  string  `json:"customer_name"`
	Phone         string  `json:"phone"`
	UnitName      string  `json:"unit_name"`
	ConsoleName   string  `json:"console_name"`
	StartDate     string  `json:"start_date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	DurationHours float64 `json:"duration_hours"`
	TotalPayment  float64 `json:"total_payment"`
	TotalDisplay  string  `json:"total_display"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`

	// StartAt keeps the parsed timestamp for sorting; zero when the raw
	// record had no parseable start time.
	StartAt time.Time `json:"-"`
}

// OrderLine is a single food & drink item within an order.
type OrderLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// FoodDrinkOrder is the display shape of a cafe order.
type FoodDrinkOrder struct {
	ID            int64       `json:"id"`
	InvoiceNumber string      `json:"invoice_number"`
	CustomerName  string      `json:"customer_name"`
	Items         []OrderLine `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	ServiceFee    float64     `json:"service_fee"`
	Total         float64     `json:"total"`
	TotalDisplay  string      `json:"total_display"`
	Status        string      `json:"status"`

	CreatedAt time.Time `json:"-"`
}

// User is the display shape of a customer or admin account.
type User struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Role          string  `json:"role"`
	TotalSpend    float64 `json:"total_spend"`
	SpendDisplay  string  `json:"spend_display"`
	LoyaltyPoints int     `json:"loyalty_points"`
	BookingHours  float64 `json:"booking_hours"`

	CreatedAt time.Time `json:"-"`
}

// Transaction is the display shape of a payment record.
type Transaction struct {
	ID            int64   `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	BookingID     int64   `json:"booking_id"`
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	Tax           float64 `json:"tax"`
	ServiceFee    float64 `json:"service_fee"`
	FinalAmount   float64 `json:"final_amount"`
	FinalDisplay  string  `json:"final_display"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	Date          string  `json:"date"`

	CreatedAt time.Time `json:"-"`
}

// Pagination is the normalized pagination descriptor used for both server and
// locally paginated datasets.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate builds a descriptor for a locally sliced collection.
func Paginate(total, page, perPage int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	totalPages := (total + perPage - 1) / perPage
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}
	return Pagination{Page: page, PerPage: perPage, TotalItems: total, TotalPages: totalPages}
}

// Slice returns the bounds of the current page within a collection of the
// given length.
func (p Pagination) Slice(length int) (int, int) {
	start := (p.Page - 1) * p.PerPage
	if start < 0 {
		start = 0
	}
	if start > length {
		start = length
	}
	end := start + p.PerPage
	if end > length {
		end = length
	}
	return start, end
}

// RowNumber returns the continuous 1-based row number for an index on the
// current page.
func (p Pagination) RowNumber(index int) int {
	return (p.Page-1)*p.PerPage + index + 1
}

// Console is a rentable unit reference loaded from the consoles file.
type Console struct {
	ID       int64  `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	UnitName string `yaml:"unit_name" json:"unit_name"`
	Active   bool   `yaml:"active" json:"active"`
}
