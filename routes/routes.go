// routes/routes.go
package routes

import (
	"net/http"

	"go-shop/controllers"
	"go-shop/middleware"
	"go-shop/utils"

	"github.com/gorilla/mux"
)

// Controllers groups the handlers the router dispatches to.
type Controllers struct {
	Users  *controllers.UserController
	Orders *controllers.OrderController
	Admin  *controllers.AdminController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, userGuard, adminGuard *middleware.Guard) {
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusNotFound, utils.Envelope{"success": false, "message": "Route not found"})
	})
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// User routes
	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("/signup", c.Users.Signup).Methods("POST")
	users.HandleFunc("/verify/{token}", c.Users.VerifyEmail).Methods("GET")
	users.HandleFunc("/resend-verification", c.Users.ResendVerification).Methods("POST")
	users.HandleFunc("/login", c.Users.Login).Methods("POST")
	users.HandleFunc("/profile", userGuard.Protect(c.Users.GetProfile)).Methods("GET")
	users.HandleFunc("/update-profile-pic", userGuard.Protect(c.Users.UpdateProfilePic)).Methods("PUT")

	// Order routes
	orders := api.PathPrefix("/orders").Subrouter()
	orders.HandleFunc("", userGuard.Protect(c.Orders.CreateOrder)).Methods("POST")
	orders.HandleFunc("", adminGuard.Protect(c.Orders.ListOrders)).Methods("GET")
	orders.HandleFunc("/guest", c.Orders.CreateGuestOrder).Methods("POST")
	orders.HandleFunc("/my", userGuard.Protect(c.Orders.GetMyOrders)).Methods("GET")
	orders.HandleFunc("/track/{paymentRef}", c.Orders.TrackOrder).Methods("GET")
	orders.HandleFunc("/user-orders", c.Orders.GetUserOrders).Methods("GET")
	orders.HandleFunc("/{id}", c.Orders.GetOrder).Methods("GET")

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/create-admin", c.Admin.CreateAdmin).Methods("GET")
	admin.HandleFunc("/login", c.Admin.AdminLogin).Methods("POST")
	admin.HandleFunc("/", adminGuard.Protect(c.Orders.ListOrders)).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", adminGuard.Protect(c.Admin.UpdateOrderStatus)).Methods("PUT")
}
