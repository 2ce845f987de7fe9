// config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Mongo      MongoConfig
	Auth       AuthConfig
	Email      EmailConfig
	Cloudinary CloudinaryConfig
	Payment    PaymentConfig
	Admin      AdminConfig
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

type StoreConfig struct {
	Driver string // "mongo" or "memory"
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type AuthConfig struct {
	JWTSecret       string
	SessionTTL      time.Duration
	VerifyTTL       time.Duration
	ResendVerifyTTL time.Duration
	AdminTTL        time.Duration
}

type EmailConfig struct {
	Provider      string // "postmark", "sendgrid" or "log"
	PostmarkToken string
	SendGridKey   string
	From          string
	FromName      string
	FrontendURL   string
}

type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Configured reports whether enough credentials are present to reach Cloudinary.
func (c CloudinaryConfig) Configured() bool {
	return c.URL != "" || (c.CloudName != "" && c.APIKey != "" && c.APISecret != "")
}

type PaymentConfig struct {
	VerifyPayments  bool
	PaystackSecret  string
	PaystackBaseURL string
	Timeout         time.Duration
}

type AdminConfig struct {
	SetupEnabled bool
	Email        string
	Password     string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "5900"),
			ReadTimeout:    getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:5174"}),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DATABASE", "ecommerce"),
			Timeout:  getEnvDuration("MONGO_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET"),
			SessionTTL:      getEnvDuration("SESSION_TTL", 20*time.Minute),
			VerifyTTL:       getEnvDuration("VERIFY_TTL", 7*24*time.Hour),
			ResendVerifyTTL: getEnvDuration("RESEND_VERIFY_TTL", 15*time.Minute),
			AdminTTL:        getEnvDuration("ADMIN_TTL", 24*time.Hour),
		},
		Email: EmailConfig{
			Provider:      strings.ToLower(getEnv("EMAIL_PROVIDER", "log")),
			PostmarkToken: os.Getenv("POSTMARK_API_TOKEN"),
			SendGridKey:   os.Getenv("SENDGRID_API_KEY"),
			From:          getEnv("EMAIL_SENDER", "no-reply@localhost"),
			FromName:      getEnv("EMAIL_SENDER_NAME", "MistressChef"),
			FrontendURL:   strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		},
		Cloudinary: CloudinaryConfig{
			URL:       os.Getenv("CLOUDINARY_URL"),
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    getEnv("CLOUDINARY_FOLDER", "profile-pics"),
		},
		Payment: PaymentConfig{
			VerifyPayments:  getEnvBool("PAYMENT_VERIFICATION", true),
			PaystackSecret:  os.Getenv("PAYSTACK_SECRET_KEY"),
			PaystackBaseURL: strings.TrimRight(getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"), "/"),
			Timeout:         getEnvDuration("PAYSTACK_TIMEOUT", 10*time.Second),
		},
		Admin: AdminConfig{
			SetupEnabled: getEnvBool("ADMIN_SETUP_ENABLED", true),
			Email:        strings.ToLower(getEnv("ADMIN_EMAIL", "admin@shop.com")),
			Password:     getEnv("ADMIN_PASSWORD", "admin123"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every selected backend has what it needs.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	switch c.Store.Driver {
	case "mongo":
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when STORE_DRIVER=mongo"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	switch c.Email.Provider {
	case "postmark":
		if c.Email.PostmarkToken == "" {
			errs = append(errs, errors.New("POSTMARK_API_TOKEN is required when EMAIL_PROVIDER=postmark"))
		}
	case "sendgrid":
		if c.Email.SendGridKey == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY is required when EMAIL_PROVIDER=sendgrid"))
		}
	case "log":
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_PROVIDER %q", c.Email.Provider))
	}

	if c.Payment.VerifyPayments && c.Payment.PaystackSecret == "" {
		errs = append(errs, errors.New("PAYSTACK_SECRET_KEY is required unless PAYMENT_VERIFICATION=false"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		slog.Warn("invalid boolean, using default", slog.String("key", key))
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		slog.Warn("invalid duration, using default", slog.String("key", key))
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
