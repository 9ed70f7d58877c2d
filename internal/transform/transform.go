// Package transform maps raw rental API records to display models. Every
// function is pure: arbitrary holes in the input become typed defaults in the
// output, never errors.
package transform

import (
	"rentdash/internal/models"
)

// Booking converts one raw booking to its display shape.
func Booking(raw RawBooking) models.Booking {
	start, startOK := ParseTimestamp(raw.StartTime)
	end, endOK := ParseTimestamp(raw.EndTime)

	b := models.Booking{
		ID:            raw.ID,
		InvoiceNumber: fallback(PlaceholderDash, raw.InvoiceNumber),
		BookingType:   fallback(PlaceholderNA, raw.BookingType),
		CustomerName:  PlaceholderNA,
		Phone:         PlaceholderDash,
		UnitName:      PlaceholderNA,
		ConsoleName:   PlaceholderNA,
		StartDate:     DateString(start, startOK),
		StartTime:     ClockString(start, startOK),
		EndTime:       ClockString(end, endOK),
		DurationHours: DurationHours(start, end, startOK, endOK),
		TotalPayment:  Amount(raw.TotalPrice),
		PaymentMethod: fallback(PlaceholderDash, raw.PaymentMethod),
		Status:        Status(raw.Status),
	}
	if startOK {
		b.StartAt = start
	}
	if raw.Customer != nil {
		b.CustomerName = fallback(PlaceholderNA, raw.Customer.Name)
		b.Phone = fallback(PlaceholderDash, raw.Customer.Phone)
	}
	if raw.Unit != nil {
		b.UnitName = fallback(PlaceholderNA, raw.Unit.Name)
		if raw.Unit.Console != nil {
			b.ConsoleName = fallback(PlaceholderNA, raw.Unit.Console.Name)
		}
	}
	b.TotalDisplay = FormatCurrency(b.TotalPayment)
	return b
}

// Order converts one raw food & drink order. A missing customer relation
// renders as a guest order.
func Order(raw RawOrder) models.FoodDrinkOrder {
	created, createdOK := ParseTimestamp(raw.CreatedAt)

	o := models.FoodDrinkOrder{
		ID:            raw.ID,
		InvoiceNumber: fallback(PlaceholderDash, raw.InvoiceNumber),
		CustomerName:  "Guest",
		Items:         make([]models.OrderLine, 0, len(raw.Items)),
		Subtotal:      Amount(raw.Subtotal),
		Tax:           Amount(raw.Tax),
		ServiceFee:    Amount(raw.ServiceFee),
		Total:         Amount(raw.Total),
		Status:        Status(raw.Status),
	}
	if createdOK {
		o.CreatedAt = created
	}
	if raw.Customer != nil && raw.Customer.Name != "" {
		o.CustomerName = raw.Customer.Name
	}

	for _, item := range raw.Items {
		line := models.OrderLine{
			Name:      fallback(PlaceholderNA, item.Name),
			Quantity:  item.Quantity,
			UnitPrice: Amount(item.UnitPrice),
			LineTotal: Amount(item.Subtotal),
		}
		if line.Quantity < 0 {
			line.Quantity = 0
		}
		if line.LineTotal == 0 && line.Quantity > 0 {
			line.LineTotal = line.UnitPrice * float64(line.Quantity)
		}
		o.Items = append(o.Items, line)
	}

	// Upstream occasionally omits the precomputed totals; derive them from
	// the lines so the table never shows an empty amount.
	if o.Subtotal == 0 {
		for _, line := range o.Items {
			o.Subtotal += line.LineTotal
		}
	}
	if o.Total == 0 {
		o.Total = o.Subtotal + o.Tax + o.ServiceFee
	}
	o.TotalDisplay = FormatCurrency(o.Total)
	return o
}

// User converts one raw account record. Aggregate stats default to zero.
func User(raw RawUser) models.User {
	created, createdOK := ParseTimestamp(raw.CreatedAt)

	u := models.User{
		ID:            raw.ID,
		Name:          fallback(PlaceholderNA, raw.Name),
		Username:      fallback(PlaceholderDash, raw.Username),
		Email:         fallback(PlaceholderDash, raw.Email),
		Phone:         fallback(PlaceholderDash, raw.Phone),
		Role:          Role(raw.Role),
		TotalSpend:    Amount(raw.TotalSpend),
		LoyaltyPoints: raw.LoyaltyPoints,
		BookingHours:  Amount(raw.BookingHours),
	}
	if u.LoyaltyPoints < 0 {
		u.LoyaltyPoints = 0
	}
	if createdOK {
		u.CreatedAt = created
	}
	u.SpendDisplay = FormatCurrency(u.TotalSpend)
	return u
}

// Role normalizes an upstream role string; anything unrecognized is treated
// as a customer account.
func Role(raw string) string {
	switch Status(raw) {
	case models.RoleAdmin:
		return models.RoleAdmin
	case models.RoleSuperadmin:
		return models.RoleSuperadmin
	default:
		return models.RoleCustomer
	}
}

// Transaction converts one raw payment record, recomputing the final amount
// when upstream leaves it empty.
func Transaction(raw RawTransaction) models.Transaction {
	created, createdOK := ParseTimestamp(raw.CreatedAt)

	t := models.Transaction{
		ID:            raw.ID,
		InvoiceNumber: fallback(PlaceholderDash, raw.InvoiceNumber),
		BookingID:     raw.BookingID,
		Subtotal:      Amount(raw.Subtotal),
		Discount:      Amount(raw.Discount),
		Tax:           Amount(raw.Tax),
		ServiceFee:    Amount(raw.ServiceFee),
		FinalAmount:   Amount(raw.FinalAmount),
		PaymentMethod: fallback(PlaceholderDash, raw.PaymentMethod),
		Status:        Status(raw.Status),
		Date:          DateString(created, createdOK),
	}
	if createdOK {
		t.CreatedAt = created
	}
	if t.FinalAmount == 0 {
		final := t.Subtotal - t.Discount + t.Tax + t.ServiceFee
		if final > 0 {
			t.FinalAmount = final
		}
	}
	t.FinalDisplay = FormatCurrency(t.FinalAmount)
	return t
}

// Bookings maps a raw collection, preserving order.
func Bookings(raws []RawBooking) []models.Booking {
	out := make([]models.Booking, 0, len(raws))
	for _, r := range raws {
		out = append(out, Booking(r))
	}
	return out
}

// Orders maps a raw collection, preserving order.
func Orders(raws []RawOrder) []models.FoodDrinkOrder {
	out := make([]models.FoodDrinkOrder, 0, len(raws))
	for _, r := range raws {
		out = append(out, Order(r))
	}
	return out
}

// Users maps a raw collection, preserving order.
func Users(raws []RawUser) []models.User {
	out := make([]models.User, 0, len(raws))
	for _, r := range raws {
		out = append(out, User(r))
	}
	return out
}

// Transactions maps a raw collection, preserving order.
func Transactions(raws []RawTransaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(raws))
	for _, r := range raws {
		out = append(out, Transaction(r))
	}
	return out
}
