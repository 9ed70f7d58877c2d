package transform

// Raw record shapes as served by the rental API. All relations are optional;
// the transform functions are the only consumers and default every hole.

type RawCustomer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type RawConsole struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type RawUnit struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Console *RawConsole `json:"console"`
}

type RawBooking struct {
	ID            int64        `json:"id"`
	InvoiceNumber string       `json:"invoice_number"`
	BookingType   string       `json:"booking_type"`
	StartTime     string       `json:"start_time"`
	EndTime       string       `json:"end_time"`
	TotalPrice    FlexFloat    `json:"total_price"`
	PaymentMethod string       `json:"payment_method"`
	Status        string       `json:"status"`
	Customer      *RawCustomer `json:"customer"`
	Unit          *RawUnit     `json:"unit"`
}

type RawOrderItem struct {
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice FlexFloat `json:"unit_price"`
	Subtotal  FlexFloat `json:"subtotal"`
}

type RawOrder struct {
	ID            int64          `json:"id"`
	InvoiceNumber string         `json:"invoice_number"`
	Customer      *RawCustomer   `json:"customer"`
	Items         []RawOrderItem `json:"items"`
	Subtotal      FlexFloat      `json:"subtotal"`
	Tax           FlexFloat      `json:"tax"`
	ServiceFee    FlexFloat      `json:"service_fee"`
	Total         FlexFloat      `json:"total"`
	Status        string         `json:"status"`
	CreatedAt     string         `json:"created_at"`
}

type RawUser struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Role          string    `json:"role"`
	TotalSpend    FlexFloat `json:"total_spend"`
	LoyaltyPoints int       `json:"loyalty_points"`
	BookingHours  FlexFloat `json:"booking_hours"`
	CreatedAt     string    `json:"created_at"`
}

type RawTransaction struct {
	ID            int64     `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	BookingID     int64     `json:"booking_id"`
	Subtotal      FlexFloat `json:"subtotal"`
	Discount      FlexFloat `json:"discount"`
	Tax           FlexFloat `json:"tax"`
	ServiceFee    FlexFloat `json:"service_fee"`
	FinalAmount   FlexFloat `json:"final_amount"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     string    `json:"created_at"`
}
