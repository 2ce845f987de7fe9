package models

import "github.com/shopspring/decimal"

// LineItem is one product line of the cart snapshot stored on an order.
type LineItem struct {
	ProductID string          `bson:"id" json:"id" validate:"required"`
	Name      string          `bson:"name" json:"name" validate:"required"`
	Price     decimal.Decimal `bson:"price" json:"price"`
	Qty       int             `bson:"qty" json:"qty" validate:"gte=1"`
}

// Extension is unit price times quantity.
func (li LineItem) Extension() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Qty)))
}
