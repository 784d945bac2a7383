package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/fastfood-platform/order-service/internal/orders/domain"
	"github.com/fastfood-platform/order-service/internal/orders/metrics"
	"github.com/fastfood-platform/order-service/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableCommandHandler struct {
	handler CommandHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler(handler CommandHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler {
	return &ObservableCommandHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "CreateOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordOrderCreationDuration(ctx, duration)
		o.metrics.RecordOrderCreated(ctx, success)
	}()

	o.logger.InfoContext(ctx, "creating order",
		"customer_internal_id", cmd.CustomerID,
		"item_count", len(cmd.Items),
	)

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to create order",
			"error", err,
			"customer_internal_id", cmd.CustomerID,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.internal_id", order.InternalID),
		attribute.String("order.display_id", order.DisplayID),
		attribute.Int64("order.customer_internal_id", order.CustomerID),
		attribute.Float64("order.value", order.Value.Float64()),
		attribute.String("order.status", string(order.Status)),
	)

	o.logger.InfoContext(ctx, "order created successfully",
		"order_internal_id", order.InternalID,
		"order_display_id", order.DisplayID,
		"customer_internal_id", order.CustomerID,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}
