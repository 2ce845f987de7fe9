// controllers/order.go
package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-shop/apperr"
	"go-shop/models"
	"go-shop/store"
	"go-shop/utils"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderController handles order-related requests
type OrderController struct {
	Orders   store.OrderStore
	Payments utils.PaymentVerifier
}

// NewOrderController creates a new OrderController
func NewOrderController(orders store.OrderStore, payments utils.PaymentVerifier) *OrderController {
	return &OrderController{Orders: orders, Payments: payments}
}

type createOrderRequest struct {
	Name       string            `json:"name" validate:"required"`
	Email      string            `json:"email" validate:"required,email"`
	Phone      string            `json:"phone" validate:"required"`
	Address    string            `json:"address" validate:"required"`
	Cart       []models.LineItem `json:"cart" validate:"required,min=1,dive"`
	Total      decimal.Decimal   `json:"total"`
	PaymentRef string            `json:"paymentRef" validate:"required"`
}

// CreateOrder places an order owned by the authenticated caller.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request, id models.Identity) {
	owner := id.ID
	oc.createOrder(w, r, &owner)
}

// CreateGuestOrder places an order with no owning account.
func (oc *OrderController) CreateGuestOrder(w http.ResponseWriter, r *http.Request) {
	oc.createOrder(w, r, nil)
}

func (oc *OrderController) createOrder(w http.ResponseWriter, r *http.Request, owner *primitive.ObjectID) {
	var req createOrderRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = models.NormalizeEmail(req.Email)
	req.PaymentRef = strings.TrimSpace(req.PaymentRef)
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if !req.Total.IsPositive() {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrValidation, "total must be greater than zero"))
		return
	}
	for _, item := range req.Cart {
		if item.Price.IsNegative() {
			utils.WriteError(w, r, apperr.WithMessage(apperr.ErrValidation, "cart prices must not be negative"))
			return
		}
	}

	ctx := r.Context()
	logger := utils.Logger(ctx).With(slog.String("payment_ref", req.PaymentRef))

	// Confirm the payment before persisting anything
	payment, err := oc.Payments.VerifyPayment(ctx, req.PaymentRef)
	if err != nil && !errors.Is(err, apperr.ErrPaymentNotVerified) {
		utils.WriteError(w, r, err)
		return
	}
	if err != nil || !payment.Succeeded() {
		logger.Warn("payment not verified", slog.Any("error", err))
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrPaymentNotVerified, "Payment not verified"))
		return
	}

	order := &models.Order{
		User:       owner,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      strings.TrimSpace(req.Phone),
		Address:    strings.TrimSpace(req.Address),
		Cart:       req.Cart,
		Total:      req.Total,
		PaymentRef: req.PaymentRef,
		Status:     models.StatusPending,
	}

	// Totals are accepted as submitted; mismatches are only logged.
	if cartTotal := order.CartTotal(); !cartTotal.Equal(order.Total) {
		logger.Warn("order total differs from cart", slog.String("total", order.Total.String()), slog.String("cart_total", cartTotal.String()))
	}
	if !payment.Amount.IsZero() && !payment.Amount.Equal(order.Total) {
		logger.Warn("order total differs from amount paid", slog.String("total", order.Total.String()), slog.String("paid", payment.Amount.String()))
	}

	if err := oc.Orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, apperr.ErrDuplicatePaymentRef) {
			err = apperr.WithMessage(apperr.ErrDuplicatePaymentRef, "An order with this payment reference already exists")
		}
		utils.WriteError(w, r, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, utils.Envelope{
		"message": "Order created successfully",
		"order":   order,
	})
}

// GetOrder returns one order by id.
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrValidation, "Invalid order id"))
		return
	}

	order, err := oc.Orders.GetOrderByID(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, orderLookupError(err))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"order": order})
}

// GetMyOrders lists the caller's orders, newest first.
func (oc *OrderController) GetMyOrders(w http.ResponseWriter, r *http.Request, id models.Identity) {
	orders, err := oc.Orders.ListOrdersByUser(r.Context(), id.ID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"orders": orders})
}

// ListOrders lists every order with its owner joined in. Admin only.
func (oc *OrderController) ListOrders(w http.ResponseWriter, r *http.Request, _ models.Identity) {
	orders, err := oc.Orders.ListOrders(r.Context())
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"orders": orders})
}

// TrackOrder is the public lookup by payment reference.
func (oc *OrderController) TrackOrder(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(mux.Vars(r)["paymentRef"])
	if ref == "" {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrOrderNotFound, "Order not found"))
		return
	}
	orders, err := oc.Orders.FindOrders(r.Context(), models.OrderFilter{PaymentRef: ref})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if len(orders) == 0 {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrOrderNotFound, "Order not found"))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"order": orders[0]})
}

// GetUserOrders is the public lookup by checkout email, optionally narrowed to
// one payment reference.
func (oc *OrderController) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.OrderFilter{
		Email:      models.NormalizeEmail(query.Get("email")),
		PaymentRef: strings.TrimSpace(query.Get("paymentRef")),
	}
	if filter.Email == "" {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrValidation, "Email required"))
		return
	}

	orders, err := oc.Orders.FindOrders(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if len(orders) == 0 {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrOrderNotFound, "No orders found"))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"orders": orders})
}

func orderLookupError(err error) error {
	if errors.Is(err, apperr.ErrOrderNotFound) {
		return apperr.WithMessage(apperr.ErrOrderNotFound, "Order not found")
	}
	return err
}
