package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentVerification is what the payment gateway reports for a reference.
type PaymentVerification struct {
	Reference string
	Status    string // gateway wording, e.g. "success", "failed", "abandoned"
	Amount    decimal.Decimal
	Currency  string
	PaidAt    time.Time
}

// Succeeded reports whether the gateway considers the payment complete.
func (p PaymentVerification) Succeeded() bool {
	return p.Status == "success"
}
