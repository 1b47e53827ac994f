package controllers

import (
	"testing"
	"time"
)

func TestCreateBookingPayloadStay(t *testing.T) {
	p := createBookingPayload{CheckIn: "2024-01-01", CheckOut: "2024-01-04"}
	in, out, err := p.stay()
	if err != nil {
		t.Fatalf("stay: %v", err)
	}
	if !in.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || !out.Equal(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("stay = %v .. %v", in, out)
	}

	for _, bad := range []createBookingPayload{
		{CheckIn: "01/01/2024", CheckOut: "2024-01-04"},
		{CheckIn: "2024-01-01", CheckOut: ""},
		{CheckIn: "2024-02-30", CheckOut: "2024-03-01"},
	} {
		if _, _, err := bad.stay(); err == nil {
			t.Errorf("stay(%q, %q) accepted", bad.CheckIn, bad.CheckOut)
		}
	}
}
