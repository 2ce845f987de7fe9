package utils

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-shop/apperr"
)

// Envelope is a JSON response body. The writers below fill in "success".
type Envelope map[string]interface{}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", slog.Any("error", err))
	}
}

func WriteSuccess(w http.ResponseWriter, status int, body Envelope) {
	if body == nil {
		body = Envelope{}
	}
	body["success"] = true
	WriteJSON(w, status, body)
}

// WriteError answers with the status err maps to. Messages of server-side
// failures are logged and replaced, so driver or gateway details never reach
// the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		Logger(r.Context()).Error("request failed", slog.Any("error", err))
		msg = "Server error"
	case http.StatusBadGateway:
		Logger(r.Context()).Error("upstream failed", slog.Any("error", err))
		msg = "Image upload failed"
	}
	WriteJSON(w, status, Envelope{"success": false, "message": msg})
}

// MaxJSONBody caps the size of JSON request bodies.
const MaxJSONBody = 1 << 20

// DecodeJSON reads a JSON request body of at most MaxJSONBody bytes into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if BodyTooLarge(err) {
			return apperr.WithMessage(apperr.ErrValidation, "Request body too large")
		}
		return apperr.WithMessage(apperr.ErrValidation, "Invalid request body")
	}
	return nil
}

// BodyTooLarge reports whether err came from reading past a MaxBytesReader limit.
func BodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}
