// main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-shop/config"
	"go-shop/controllers"
	"go-shop/middleware"
	"go-shop/routes"
	"go-shop/store"
	"go-shop/utils"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type stores struct {
	users  store.UserStore
	admins store.AdminStore
	orders store.OrderStore
	close  func(context.Context) error
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			slog.Error("close store", slog.Any("error", err))
		}
	}()

	mailer, err := utils.NewMailer(cfg.Email)
	if err != nil {
		slog.Error("configure mailer", slog.Any("error", err))
		os.Exit(1)
	}
	emailService := utils.NewEmailService(mailer, cfg.Email)

	var uploader utils.ImageUploader = utils.DisabledUploader{}
	if cfg.Cloudinary.Configured() {
		cld, err := utils.NewCloudinaryUploader(cfg.Cloudinary)
		if err != nil {
			slog.Error("configure image uploads", slog.Any("error", err))
			os.Exit(1)
		}
		uploader = cld
	} else {
		slog.Warn("cloudinary not configured, profile picture uploads are disabled")
	}

	var payments utils.PaymentVerifier = utils.NewPaystackVerifier(cfg.Payment)
	if !cfg.Payment.VerifyPayments {
		slog.Warn("PAYMENT_VERIFICATION=false: orders are accepted without checking the payment gateway")
		payments = utils.SkipPaymentVerification{}
	}

	tokens := utils.NewTokenService(cfg.Auth.JWTSecret)

	// Initialize controllers
	c := routes.Controllers{
		Users:  controllers.NewUserController(st.users, tokens, emailService, uploader, cfg.Auth),
		Orders: controllers.NewOrderController(st.orders, payments),
		Admin:  controllers.NewAdminController(st.admins, st.orders, tokens, emailService, cfg.Auth, cfg.Admin),
	}
	userGuard := middleware.NewGuard(tokens, middleware.UserResolver{Users: st.users})
	adminGuard := middleware.NewGuard(tokens, middleware.AdminResolver{Admins: st.admins})

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, c, userGuard, adminGuard)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      middleware.Stack(router, cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("server listening", slog.String("addr", srv.Addr), slog.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown", slog.Any("error", err))
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store.Driver == "memory" {
		slog.Warn("using in-memory store, data is lost on restart")
		mem := store.NewMemoryStore()
		return &stores{users: mem, admins: mem, orders: mem, close: func(context.Context) error { return nil }}, nil
	}

	// Connect to MongoDB
	client, err := store.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Mongo.Database)

	indexCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
	defer cancel()
	if err := store.EnsureIndexes(indexCtx, db); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	return &stores{
		users:  store.NewMongoUserStore(db),
		admins: store.NewMongoAdminStore(db),
		orders: store.NewMongoOrderStore(db),
		close:  client.Disconnect,
	}, nil
}
