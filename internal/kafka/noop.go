package kafka

import (
	"context"
	"log/slog"
	"time"
)

// Topics for order lifecycle events.
const (
	TopicOrderCreated     = "orders.created"
	TopicPaymentConfirmed = "orders.payment_confirmed"
	TopicOrderCancelled   = "orders.cancelled"
)

// NoopEventBus logs events without sending them to Kafka. Useful for local
// dev before a broker is wired in. Publish latency is still recorded so
// dashboards keep their shape when the real producer lands.
type NoopEventBus struct {
	metrics *Metrics
}

// NewNoopEventBus returns a new no-op event publisher.
func NewNoopEventBus(metrics *Metrics) *NoopEventBus {
	return &NoopEventBus{metrics: metrics}
}

func (n *NoopEventBus) PublishOrderCreated(ctx context.Context, orderID int64) error {
	return n.publish(ctx, TopicOrderCreated, orderID)
}

func (n *NoopEventBus) PublishPaymentConfirmed(ctx context.Context, orderID int64) error {
	return n.publish(ctx, TopicPaymentConfirmed, orderID)
}

func (n *NoopEventBus) PublishOrderCancelled(ctx context.Context, orderID int64) error {
	return n.publish(ctx, TopicOrderCancelled, orderID)
}

func (n *NoopEventBus) publish(ctx context.Context, topic string, orderID int64) error {
	start := time.Now()
	slog.DebugContext(ctx, "event::"+topic, "order_internal_id", orderID)
	if n.metrics != nil {
		n.metrics.RecordPublish(ctx, topic, time.Since(start).Seconds(), true)
	}
	return nil
}
