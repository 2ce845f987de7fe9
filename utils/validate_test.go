package utils

import (
	"errors"
	"strings"
	"testing"

	"go-shop/apperr"
	"go-shop/models"
)

func TestValidateStruct(t *testing.T) {
	type request struct {
		Email string            `json:"email" validate:"required,email"`
		Cart  []models.LineItem `json:"cart" validate:"required,min=1,dive"`
	}

	tests := []struct {
		name string
		req  request
		want []string
	}{
		{"valid", request{Email: "ada@example.com", Cart: []models.LineItem{{ProductID: "p1", Name: "Jollof", Qty: 1}}}, nil},
		{"missing email", request{Cart: []models.LineItem{{ProductID: "p1", Name: "Jollof", Qty: 1}}}, []string{"email is required"}},
		{"bad email", request{Email: "nope", Cart: []models.LineItem{{ProductID: "p1", Name: "Jollof", Qty: 1}}}, []string{"email must be a valid email address"}},
		{"empty cart", request{Email: "ada@example.com", Cart: []models.LineItem{}}, []string{"cart must have at least 1 item(s)"}},
		{"bad line", request{Email: "ada@example.com", Cart: []models.LineItem{{Qty: 0}}}, []string{"cart[0].id is required", "cart[0].name is required", "cart[0].qty must be at least 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("message %q missing %q", err.Error(), w)
				}
			}
		})
	}
}
