package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fastfood-platform/order-service/internal/orders/ports"
	"github.com/google/uuid"
)

// Client talks to the payment service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type requestPaymentBody struct {
	Amount     float64 `json:"amount"`
	WebhookURL string  `json:"webhook_url"`
}

type paymentResponseDTO struct {
	TransactionID string `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
	QRCode        string `json:"qr_code"`
	Link          string `json:"link"`
	ExpiresAt     string `json:"expires_at"`
}

func (c *Client) RequestPayment(ctx context.Context, orderID int64, amount float64, webhookURL string) (*ports.PaymentRequest, error) {
	body, err := json.Marshal(requestPaymentBody{Amount: amount, WebhookURL: webhookURL})
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}

	url := fmt.Sprintf("%s/payment/request/%d", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment request for order %d: %w", orderID, ports.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ports.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("payment request for order %d returned %d: %w", orderID, resp.StatusCode, ports.ErrRejected)
	}

	var dto paymentResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}

	paymentURL := dto.PaymentURL
	if paymentURL == "" {
		paymentURL = dto.QRCode
	}
	if paymentURL == "" {
		paymentURL = dto.Link
	}

	return &ports.PaymentRequest{
		TransactionID: dto.TransactionID,
		PaymentURL:    paymentURL,
		ExpiresAt:     dto.ExpiresAt,
	}, nil
}
