// controllers/admin.go
package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-shop/apperr"
	"go-shop/config"
	"go-shop/models"
	"go-shop/store"
	"go-shop/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminController handles back-office requests
type AdminController struct {
	Admins store.AdminStore
	Orders store.OrderStore
	Tokens *utils.TokenService
	Email  *utils.EmailService
	Auth   config.AuthConfig
	Setup  config.AdminConfig
}

// NewAdminController creates a new AdminController
func NewAdminController(admins store.AdminStore, orders store.OrderStore, tokens *utils.TokenService, email *utils.EmailService, auth config.AuthConfig, setup config.AdminConfig) *AdminController {
	return &AdminController{
		Admins: admins,
		Orders: orders,
		Tokens: tokens,
		Email:  email,
		Auth:   auth,
		Setup:  setup,
	}
}

// CreateAdmin provisions the configured admin account once. The password is
// never echoed back.
func (ac *AdminController) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	if !ac.Setup.SetupEnabled {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrForbidden, "Admin setup is disabled"))
		return
	}

	ctx := r.Context()
	email := models.NormalizeEmail(ac.Setup.Email)
	_, err := ac.Admins.GetAdminByEmail(ctx, email)
	switch {
	case err == nil:
		utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"message": "Admin already exists", "email": email})
		return
	case !errors.Is(err, apperr.ErrAdminNotFound):
		utils.WriteError(w, r, err)
		return
	}

	hashed, err := utils.HashPassword(ac.Setup.Password)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	admin := &models.Admin{Email: email, Password: hashed}
	if err := ac.Admins.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, apperr.ErrEmailTaken) {
			utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"message": "Admin already exists", "email": email})
			return
		}
		utils.WriteError(w, r, err)
		return
	}

	utils.Logger(ctx).Info("admin account provisioned", slog.String("email", email))
	utils.WriteSuccess(w, http.StatusCreated, utils.Envelope{"message": "Admin created", "email": email})
}

// AdminLogin issues an admin-scoped session token.
func (ac *AdminController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var creds loginRequest
	if err := utils.DecodeJSON(w, r, &creds); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	creds.Email = models.NormalizeEmail(creds.Email)
	if err := utils.ValidateStruct(creds); err != nil {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrValidation, "All fields required"))
		return
	}

	admin, err := ac.Admins.GetAdminByEmail(r.Context(), creds.Email)
	if errors.Is(err, apperr.ErrAdminNotFound) {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrInvalidCredentials, "Admin not found"))
		return
	}
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if !utils.CheckPassword(admin.Password, creds.Password) {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrInvalidCredentials, "Invalid credentials"))
		return
	}

	token, err := ac.Tokens.Issue(utils.Claims{
		ID:      admin.ID.Hex(),
		Email:   admin.Email,
		Role:    string(models.RoleAdmin),
		Purpose: utils.PurposeSession,
	}, ac.Auth.AdminTTL)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"token": token})
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus sets an order's status to any accepted value and emails
// the customer. No transition ordering is enforced.
func (ac *AdminController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, admin models.Identity) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrValidation, "Invalid order id"))
		return
	}

	var req statusRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		names := make([]string, len(models.OrderStatuses))
		for i, s := range models.OrderStatuses {
			names[i] = string(s)
		}
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrValidation, "Invalid status. Must be one of: "+strings.Join(names, ", ")))
		return
	}

	ctx := r.Context()
	order, err := ac.Orders.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		utils.WriteError(w, r, orderLookupError(err))
		return
	}

	logger := utils.Logger(ctx).With(slog.String("order_id", order.ID.Hex()))
	logger.Info("order status updated", slog.String("status", string(status)), slog.String("admin", admin.Email))
	if err := ac.Email.SendOrderStatusEmail(ctx, order); err != nil {
		logger.Error("send order status email", slog.String("to", order.Email), slog.Any("error", err))
	}

	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{
		"message": "Order status updated",
		"order":   order,
	})
}
