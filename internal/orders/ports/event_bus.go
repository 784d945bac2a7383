package ports

import "context"

// EventBus defines the contract for publishing order lifecycle events.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, orderID int64) error
	PublishPaymentConfirmed(ctx context.Context, orderID int64) error
	PublishOrderCancelled(ctx context.Context, orderID int64) error
}
