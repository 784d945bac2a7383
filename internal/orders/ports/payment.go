package ports

import "context"

// PaymentRequest is the payment service's answer to a payment initiation.
type PaymentRequest struct {
	TransactionID string
	PaymentURL    string
	ExpiresAt     string
}

// PaymentClient initiates payments with the external payment service.
type PaymentClient interface {
	RequestPayment(ctx context.Context, orderID int64, amount float64, webhookURL string) (*PaymentRequest, error)
}
