package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fastfood-platform/order-service/internal/orders/app/commands"
	"github.com/fastfood-platform/order-service/internal/orders/app/queries"
	"github.com/fastfood-platform/order-service/internal/orders/domain"
	"github.com/fastfood-platform/order-service/internal/orders/metrics"
	"github.com/fastfood-platform/order-service/internal/orders/ports"
)

// Service bundles use cases for handling orders via the API.
type Service struct {
	repo               ports.OrderRepository
	payments           ports.PaymentClient
	events             ports.EventBus
	idemStore          ports.IdempotencyStore
	metrics            *metrics.Metrics
	createOrderHandler commands.CommandHandler
	getOrderHandler    *queries.GetOrderQueryHandler
	webhookBaseURL     string
}

// NewService wires required dependencies.
func NewService(
	repo ports.OrderRepository,
	customers ports.CustomerCatalog,
	products ports.ProductCatalog,
	ingredients ports.IngredientCatalog,
	payments ports.PaymentClient,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	webhookBaseURL string,
) *Service {
	coreHandler := commands.NewCreateOrderCommandHandler(repo, customers, products, ingredients, events)
	observableHandler := commands.NewObservableCommandHandler(coreHandler, logger, metrics)

	return &Service{
		repo:               repo,
		payments:           payments,
		events:             events,
		idemStore:          idem,
		metrics:            metrics,
		createOrderHandler: observableHandler,
		getOrderHandler:    queries.NewGetOrderQueryHandler(repo),
		webhookBaseURL:     webhookBaseURL,
	}
}

// CreateOrderInput captures payload for creating an order.
type CreateOrderInput struct {
	CustomerID int64
	Items      []commands.OrderItemInput
}

// CreateOrder orchestrates checkout: catalog resolution, aggregate
// construction and persistence.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	cmd := commands.CreateOrderCommand{
		CustomerID: input.CustomerID,
		Items:      input.Items,
	}
	return s.createOrderHandler.Handle(ctx, cmd)
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.getOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListOrders returns orders using offset pagination.
func (s *Service) ListOrders(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	return s.repo.List(ctx, filter)
}

// OrdersByStatus returns every order currently in the given status.
func (s *Service) OrdersByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	return s.repo.GetByStatus(ctx, status)
}

// UpdateOrderStatus sets an explicit status and returns the updated order.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// CancelOrder cancels an order while it is still cancellable.
func (s *Service) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanBeCancelled() {
		return nil, domain.NewValidationError("order in status %s cannot be cancelled", order.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.StatusCancelado); err != nil {
		return nil, err
	}
	order.Status = domain.StatusCancelado

	if err := s.events.PublishOrderCancelled(ctx, id); err != nil {
		return order, fmt.Errorf("order cancelled but failed to publish event: %w", err)
	}

	return order, nil
}

// ConfirmPayment applies the payment webhook outcome to the order.
func (s *Service) ConfirmPayment(ctx context.Context, id int64, payment domain.Payment) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.ProcessPayment(payment); err != nil {
		s.metrics.RecordPaymentProcessed(ctx, false)
		return nil, err
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.metrics.RecordPaymentProcessed(ctx, order.HasPaymentVerified)

	if order.HasPaymentVerified {
		if err := s.events.PublishPaymentConfirmed(ctx, id); err != nil {
			return order, fmt.Errorf("payment recorded but failed to publish event: %w", err)
		}
	} else {
		if err := s.events.PublishOrderCancelled(ctx, id); err != nil {
			return order, fmt.Errorf("payment recorded but failed to publish event: %w", err)
		}
	}

	return order, nil
}

// PaymentStatus is the payment projection of an order.
type PaymentStatus struct {
	OrderID            int64
	PaymentDate        *time.Time
	TransactionID      string
	Message            string
	HasPaymentVerified bool
	Value              float64
	Status             domain.Status
}

// GetPaymentStatus returns the payment fields for an order.
func (s *Service) GetPaymentStatus(ctx context.Context, id int64) (*PaymentStatus, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PaymentStatus{
		OrderID:            order.InternalID,
		PaymentDate:        order.PaymentDate,
		TransactionID:      order.PaymentTransactionID,
		Message:            order.PaymentMessage,
		HasPaymentVerified: order.HasPaymentVerified,
		Value:              order.Value.Float64(),
		Status:             order.Status,
	}, nil
}

// PaymentInitiation is the answer to a request-payment call.
type PaymentInitiation struct {
	OrderID       int64
	Amount        float64
	TransactionID string
	PaymentURL    string
	ExpiresAt     string
}

// RequestPayment initiates payment for an unpaid order via the payment service.
func (s *Service) RequestPayment(ctx context.Context, id int64) (*PaymentInitiation, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.HasPaymentVerified {
		return nil, domain.NewValidationError("order has already been paid")
	}

	amount := order.Value.Float64()
	webhookURL := fmt.Sprintf("%s/order/payment_confirm/%d", s.webhookBaseURL, id)

	request, err := s.payments.RequestPayment(ctx, id, amount, webhookURL)
	if err != nil {
		return nil, err
	}

	return &PaymentInitiation{
		OrderID:       id,
		Amount:        amount,
		TransactionID: request.TransactionID,
		PaymentURL:    request.PaymentURL,
		ExpiresAt:     request.ExpiresAt,
	}, nil
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
