package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
)

// Stack wraps the router with CORS, panic recovery and request logging. The
// logger sits outermost so a recovered panic is still logged with its 500.
func Stack(router http.Handler, allowedOrigins []string) http.Handler {
	handler := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)(router)
	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError)),
		handlers.PrintRecoveryStack(true),
	)(handler)
	return RequestLogger(handler)
}
