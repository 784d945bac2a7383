package ports

import (
	"context"
	"errors"

	"github.com/fastfood-platform/order-service/internal/orders/domain"
)

// OrderRepository exposes persistence operations required by the application layer.
type OrderRepository interface {
	// Create persists the order and its items, returning the stored aggregate
	// with its internal and display identifiers assigned.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, error)
	GetByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
	// Update persists mutable aggregate state: status, value, dates and
	// payment fields.
	Update(ctx context.Context, order *domain.Order) error
}

// ListFilter narrows list queries by offset pagination.
type ListFilter struct {
	Skip  int
	Limit int
}

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when an upstream collaborator cannot be reached.
	ErrUnavailable = errors.New("service unreachable")
	// ErrRejected is returned when an upstream collaborator answered with a
	// non-success status.
	ErrRejected = errors.New("service rejected request")
)
