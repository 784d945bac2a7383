package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fastfood-platform/order-service/internal/orders/adapters/payment"
	"github.com/fastfood-platform/order-service/internal/orders/ports"
)

func TestRequestPayment(t *testing.T) {
	t.Run("sends amount and webhook URL", func(t *testing.T) {
		var gotPath string
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("decode request body: %v", err)
			}
			if r.Header.Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header")
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"transaction_id":"tx-7","payment_url":"https://pay.example/tx-7","expires_at":"2026-09-01T13:00:00Z"}`))
		}))
		t.Cleanup(server.Close)

		client := payment.NewClient(server.URL, server.Client())
		request, err := client.RequestPayment(context.Background(), 7, 17.50, "http://orders.local/order/payment_confirm/7")
		if err != nil {
			t.Fatalf("request payment: %v", err)
		}

		if gotPath != "/payment/request/7" {
			t.Errorf("unexpected path %q", gotPath)
		}
		if gotBody["amount"] != 17.50 {
			t.Errorf("expected amount 17.50, got %v", gotBody["amount"])
		}
		if gotBody["webhook_url"] != "http://orders.local/order/payment_confirm/7" {
			t.Errorf("unexpected webhook URL %v", gotBody["webhook_url"])
		}

		if request.TransactionID != "tx-7" {
			t.Errorf("expected transaction tx-7, got %q", request.TransactionID)
		}
		if request.PaymentURL != "https://pay.example/tx-7" {
			t.Errorf("unexpected payment URL %q", request.PaymentURL)
		}
		if request.ExpiresAt != "2026-09-01T13:00:00Z" {
			t.Errorf("unexpected expiry %q", request.ExpiresAt)
		}
	})

	t.Run("falls back to qr_code then link", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			want string
		}{
			{name: "qr code", body: `{"transaction_id":"tx-1","qr_code":"https://pay.example/qr/tx-1"}`, want: "https://pay.example/qr/tx-1"},
			{name: "link", body: `{"transaction_id":"tx-1","link":"https://pay.example/link/tx-1"}`, want: "https://pay.example/link/tx-1"},
			{name: "payment url wins", body: `{"transaction_id":"tx-1","payment_url":"https://pay.example/tx-1","qr_code":"ignored"}`, want: "https://pay.example/tx-1"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					_, _ = w.Write([]byte(tt.body))
				}))
				t.Cleanup(server.Close)

				client := payment.NewClient(server.URL, server.Client())
				request, err := client.RequestPayment(context.Background(), 1, 10.00, "http://orders.local/order/payment_confirm/1")
				if err != nil {
					t.Fatalf("request payment: %v", err)
				}
				if request.PaymentURL != tt.want {
					t.Errorf("expected %q, got %q", tt.want, request.PaymentURL)
				}
			})
		}
	})

	t.Run("404 maps to not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(server.Close)

		client := payment.NewClient(server.URL, server.Client())
		_, err := client.RequestPayment(context.Background(), 1, 10.00, "http://orders.local/order/payment_confirm/1")
		if !errors.Is(err, ports.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("5xx maps to rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(server.Close)

		client := payment.NewClient(server.URL, server.Client())
		_, err := client.RequestPayment(context.Background(), 1, 10.00, "http://orders.local/order/payment_confirm/1")
		if !errors.Is(err, ports.ErrRejected) {
			t.Errorf("expected ErrRejected, got %v", err)
		}
	})

	t.Run("transport failure maps to unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		client := payment.NewClient(server.URL, nil)
		_, err := client.RequestPayment(context.Background(), 1, 10.00, "http://orders.local/order/payment_confirm/1")
		if !errors.Is(err, ports.ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})
}
