package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every accepted status in lifecycle order.
var OrderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// ParseOrderStatus accepts a status name in any letter case and returns its
// canonical form.
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	for _, status := range OrderStatuses {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// IsTerminal reports whether the status conventionally ends the lifecycle.
// Nothing prevents an admin from moving a terminal order elsewhere.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Description is the customer-facing wording used in notification emails.
func (s OrderStatus) Description() string {
	switch s {
	case StatusPending:
		return "We have received your order and it is awaiting processing."
	case StatusProcessing:
		return "Your order is being prepared."
	case StatusShipped:
		return "Your order is on its way."
	case StatusDelivered:
		return "Your order has been delivered."
	case StatusCancelled:
		return "Your order has been cancelled."
	default:
		return string(s)
	}
}

// Order represents a placed order
type Order struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	User       *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"` // nil for guest checkout
	Name       string              `bson:"name" json:"name"`
	Email      string              `bson:"email" json:"email"`
	Phone      string              `bson:"phone" json:"phone"`
	Address    string              `bson:"address" json:"address"`
	Cart       []LineItem          `bson:"cart" json:"cart"`
	Total      decimal.Decimal     `bson:"total" json:"total"`
	PaymentRef string              `bson:"paymentRef" json:"paymentRef"`
	Status     OrderStatus         `bson:"status" json:"status"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`

	// Owner is only filled in by admin listings.
	Owner *OrderOwner `bson:"owner,omitempty" json:"owner,omitempty"`
}

// OrderOwner is the slice of a User joined into admin order listings.
type OrderOwner struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
}

// CartTotal sums the line extensions of the cart snapshot.
func (o *Order) CartTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Cart {
		total = total.Add(item.Extension())
	}
	return total
}

// OrderFilter selects orders by exact match on the non-empty fields. An
// empty filter matches nothing; stores reject it.
type OrderFilter struct {
	Email      string
	PaymentRef string
}

func (f OrderFilter) IsEmpty() bool {
	return f.Email == "" && f.PaymentRef == ""
}
