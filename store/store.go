// Package store persists users, admins and orders.
package store

import (
	"context"
	"fmt"

	"go-shop/apperr"
	"go-shop/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the credential store for customer accounts. Emails are unique.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetVerificationToken(ctx context.Context, id primitive.ObjectID, token string) error
	// MarkVerified flips the verification flag. It reports false when the
	// user was already verified or does not exist.
	MarkVerified(ctx context.Context, id primitive.ObjectID) (bool, error)
	UpdateProfilePic(ctx context.Context, id primitive.ObjectID, url string) (*models.User, error)
}

// AdminStore is the credential store for back-office accounts.
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	GetAdminByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}

var errEmptyFilter = fmt.Errorf("%w: order filter needs an email or payment reference", apperr.ErrValidation)

// OrderStore holds orders. Payment references are unique. Listings are
// newest first.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	// ListOrders returns every order with the owner's name and email joined in.
	ListOrders(ctx context.Context) ([]models.Order, error)
	// FindOrders fails with ErrValidation for an empty filter.
	FindOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
}
