package transform

import (
	"encoding/json"
	"testing"

	"rentdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingFullRecord(t *testing.T) {
	raw := RawBooking{
		ID:            42,
		InvoiceNumber: "INV-2024-001",
		BookingType:   "room",
		StartTime:     "2024-01-01T19:00:00Z",
		EndTime:       "2024-01-01T21:00:00Z",
		TotalPrice:    150000,
		PaymentMethod: "cash",
		Status:        "confirmed",
		Customer:      &RawCustomer{Name: "Budi Santoso", Phone: "0812345678"},
		Unit:          &RawUnit{Name: "VIP Room 1", Console: &RawConsole{Name: "PS5"}},
	}

	b := Booking(raw)

	assert.Equal(t, int64(42), b.ID)
	assert.Equal(t, "19:00", b.StartTime)
	assert.Equal(t, "21:00", b.EndTime)
	assert.Equal(t, float64(2), b.DurationHours)
	assert.Equal(t, float64(150000), b.TotalPayment)
	assert.Equal(t, "Rp 150.000", b.TotalDisplay)
	assert.Equal(t, models.StatusConfirmed, b.Status)
	assert.Equal(t, "Budi Santoso", b.CustomerName)
	assert.Equal(t, "VIP Room 1", b.UnitName)
	assert.Equal(t, "PS5", b.ConsoleName)
	assert.False(t, b.StartAt.IsZero())
}

func TestBookingMissingTimestamps(t *testing.T) {
	b := Booking(RawBooking{ID: 1, Status: "pending"})

	assert.Equal(t, "-", b.StartTime)
	assert.Equal(t, "-", b.EndTime)
	assert.Equal(t, "-", b.StartDate)
	assert.Zero(t, b.DurationHours)
	assert.True(t, b.StartAt.IsZero())
}

func TestBookingDefaultsEveryField(t *testing.T) {
	b := Booking(RawBooking{})

	assert.Equal(t, "-", b.InvoiceNumber)
	assert.Equal(t, "N/A", b.BookingType)
	assert.Equal(t, "N/A", b.CustomerName)
	assert.Equal(t, "-", b.Phone)
	assert.Equal(t, "N/A", b.UnitName)
	assert.Equal(t, "N/A", b.ConsoleName)
	assert.Equal(t, "-", b.PaymentMethod)
	assert.Equal(t, models.StatusUnknown, b.Status)
	assert.Equal(t, "Rp 0", b.TotalDisplay)
}

func TestBookingNegativeWindow(t *testing.T) {
	b := Booking(RawBooking{
		StartTime: "2024-01-01T21:00:00Z",
		EndTime:   "2024-01-01T19:00:00Z",
	})
	assert.Zero(t, b.DurationHours)
}

func TestBookingStringPrice(t *testing.T) {
	var raw RawBooking
	payload := `{"id": 7, "total_price": "150000", "status": "confirmed"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	b := Booking(raw)
	assert.Equal(t, float64(150000), b.TotalPayment)
	assert.Equal(t, models.StatusConfirmed, b.Status)
}

func TestFlexFloat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `12500.5`, 12500.5},
		{"string", `"98000"`, 98000},
		{"string with spaces", `" 500 "`, 500},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
		{"garbage", `"abc"`, 0},
		{"negative survives parse", `-100`, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, float64(f))
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1500, "Rp 1.500"},
		{150000, "Rp 150.000"},
		{1250000, "Rp 1.250.000"},
		{-5000, "Rp 0"},
		{999.6, "Rp 1.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in))
	}
}

func TestStatusCapitalization(t *testing.T) {
	assert.Equal(t, "Confirmed", Status("confirmed"))
	assert.Equal(t, "Ongoing", Status("ONGOING"))
	assert.Equal(t, "Refunded", Status(" refunded "))
	assert.Equal(t, models.StatusUnknown, Status(""))
	assert.Equal(t, models.StatusUnknown, Status("   "))
}

func TestOrderGuestAndDerivedTotals(t *testing.T) {
	o := Order(RawOrder{
		ID:            3,
		InvoiceNumber: "FNB-003",
		Items: []RawOrderItem{
			{Name: "Indomie Goreng", Quantity: 2, UnitPrice: 12000},
			{Name: "Es Teh", Quantity: 3, UnitPrice: 5000, Subtotal: 15000},
		},
		Tax:    3900,
		Status: "completed",
	})

	assert.Equal(t, "Guest", o.CustomerName)
	require.Len(t, o.Items, 2)
	assert.Equal(t, float64(24000), o.Items[0].LineTotal)
	assert.Equal(t, float64(39000), o.Subtotal)
	assert.Equal(t, float64(42900), o.Total)
	assert.Equal(t, models.StatusCompleted, o.Status)
}

func TestUserDefaults(t *testing.T) {
	u := User(RawUser{ID: 9, Name: "Siti", Role: "superadmin", LoyaltyPoints: -5})

	assert.Equal(t, models.RoleSuperadmin, u.Role)
	assert.Equal(t, "-", u.Username)
	assert.Equal(t, "-", u.Email)
	assert.Zero(t, u.TotalSpend)
	assert.Zero(t, u.LoyaltyPoints)
	assert.Equal(t, "Rp 0", u.SpendDisplay)

	assert.Equal(t, models.RoleCustomer, User(RawUser{Role: "whatever"}).Role)
	assert.Equal(t, models.RoleAdmin, User(RawUser{Role: "admin"}).Role)
}

func TestTransactionRecomputesFinal(t *testing.T) {
	tx := Transaction(RawTransaction{
		ID:        11,
		Subtotal:  100000,
		Discount:  10000,
		Tax:       9900,
		CreatedAt: "2024-03-05T10:00:00Z",
		Status:    "completed",
	})

	assert.Equal(t, float64(99900), tx.FinalAmount)
	assert.Equal(t, "Rp 99.900", tx.FinalDisplay)
	assert.Equal(t, "05 Mar 2024", tx.Date)
}
