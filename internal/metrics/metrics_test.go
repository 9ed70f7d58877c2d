package metrics

import "testing"

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()

	IncHTTP("/api/v1/bookings", "200")
	IncUpstream("bookings", "ok")
	IncCache("hit")
}
