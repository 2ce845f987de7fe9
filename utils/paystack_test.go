package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-shop/apperr"
	"go-shop/config"
)

func newPaystackServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/PAY-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func verifierFor(srv *httptest.Server) *PaystackVerifier {
	return NewPaystackVerifier(config.PaymentConfig{PaystackSecret: "sk_test", PaystackBaseURL: srv.URL, Timeout: 5 * time.Second})
}

func TestPaystackVerifier_Success(t *testing.T) {
	srv := newPaystackServer(t, http.StatusOK, `{"status":true,"message":"Verification successful",
		"data":{"status":"success","reference":"PAY-1","amount":10000,"currency":"NGN","paid_at":"2025-10-01T12:00:00.000Z"}}`)

	got, err := verifierFor(srv).VerifyPayment(context.Background(), "PAY-1")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Succeeded() || got.Reference != "PAY-1" || got.Currency != "NGN" {
		t.Errorf("verification = %+v", got)
	}
	if got.Amount.String() != "100" {
		t.Errorf("amount = %s, want 100", got.Amount)
	}
}

func TestPaystackVerifier_FailedCharge(t *testing.T) {
	srv := newPaystackServer(t, http.StatusOK, `{"status":true,"message":"Verification successful",
		"data":{"status":"abandoned","reference":"PAY-1","amount":10000,"currency":"NGN","paid_at":null}}`)

	got, err := verifierFor(srv).VerifyPayment(context.Background(), "PAY-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Succeeded() {
		t.Error("abandoned payment reported as success")
	}
}

func TestPaystackVerifier_UnknownReference(t *testing.T) {
	srv := newPaystackServer(t, http.StatusBadRequest, `{"status":false,"message":"Transaction reference not found"}`)

	_, err := verifierFor(srv).VerifyPayment(context.Background(), "PAY-1")
	if !errors.Is(err, apperr.ErrPaymentNotVerified) {
		t.Errorf("error = %v, want ErrPaymentNotVerified", err)
	}
}

func TestPaystackVerifier_GatewayDown(t *testing.T) {
	srv := newPaystackServer(t, http.StatusBadGateway, `upstream unavailable`)

	_, err := verifierFor(srv).VerifyPayment(context.Background(), "PAY-1")
	if err == nil || errors.Is(err, apperr.ErrPaymentNotVerified) {
		t.Errorf("error = %v, want a plain transport error", err)
	}
}

func TestPaystackVerifier_RejectedSecretKeyIsAServerError(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := newPaystackServer(t, status, `{"status":false,"message":"Invalid key"}`)

		_, err := verifierFor(srv).VerifyPayment(context.Background(), "PAY-1")
		if err == nil || errors.Is(err, apperr.ErrPaymentNotVerified) {
			t.Errorf("status %d: error = %v, want a plain error", status, err)
		}
	}
}

func TestPaystackVerifier_NotFoundReference(t *testing.T) {
	srv := newPaystackServer(t, http.StatusNotFound, `{"status":false,"message":"Transaction reference not found"}`)

	_, err := verifierFor(srv).VerifyPayment(context.Background(), "PAY-1")
	if !errors.Is(err, apperr.ErrPaymentNotVerified) {
		t.Errorf("error = %v, want ErrPaymentNotVerified", err)
	}
}
