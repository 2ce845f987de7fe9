package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderStatus
		wantErr bool
	}{
		{"Pending", StatusPending, false},
		{"shipped", StatusShipped, false},
		{" DELIVERED ", StatusDelivered, false},
		{"Cancelled", StatusCancelled, false},
		{"Canceled", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOrderStatus(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOrderStatus(%q) = (%q, %v)", tt.in, got, err)
		}
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	for _, s := range OrderStatuses {
		want := s == StatusDelivered || s == StatusCancelled
		if s.IsTerminal() != want {
			t.Errorf("%s.IsTerminal() = %v", s, !want)
		}
		if s.Description() == string(s) {
			t.Errorf("%s has no description", s)
		}
	}
}

func TestCartTotal(t *testing.T) {
	order := &Order{Cart: []LineItem{
		{ProductID: "p1", Price: decimal.RequireFromString("19.99"), Qty: 3},
		{ProductID: "p2", Price: decimal.RequireFromString("0.03"), Qty: 1},
	}}
	if got := order.CartTotal(); !got.Equal(decimal.RequireFromString("60")) {
		t.Errorf("CartTotal = %s, want 60", got)
	}
	if got := (&Order{}).CartTotal(); !got.IsZero() {
		t.Errorf("empty CartTotal = %s", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
