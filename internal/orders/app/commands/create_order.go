package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fastfood-platform/order-service/internal/orders/domain"
	"github.com/fastfood-platform/order-service/internal/orders/ports"
)

// OrderItemInput references catalog records for one order line.
type OrderItemInput struct {
	ProductID               int64
	AdditionalIngredientIDs []int64
	RemoveIngredientIDs     []int64
}

// CreateOrderCommand is the checkout request.
type CreateOrderCommand struct {
	CustomerID int64
	Items      []OrderItemInput
}

func (c CreateOrderCommand) Validate() error {
	if c.CustomerID == 0 {
		return domain.NewValidationError("customer_internal_id is required")
	}
	if len(c.Items) == 0 {
		return domain.NewValidationError("order_items must not be empty")
	}
	for _, item := range c.Items {
		if item.ProductID == 0 {
			return domain.NewValidationError("product_internal_id is required for every order item")
		}
	}
	return nil
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
}

// CreateOrderCommandHandler resolves catalog references, builds the order
// aggregate and persists it.
type CreateOrderCommandHandler struct {
	repo        ports.OrderRepository
	customers   ports.CustomerCatalog
	products    ports.ProductCatalog
	ingredients ports.IngredientCatalog
	events      ports.EventBus
}

func NewCreateOrderCommandHandler(
	repo ports.OrderRepository,
	customers ports.CustomerCatalog,
	products ports.ProductCatalog,
	ingredients ports.IngredientCatalog,
	events ports.EventBus,
) *CreateOrderCommandHandler {
	return &CreateOrderCommandHandler{
		repo:        repo,
		customers:   customers,
		products:    products,
		ingredients: ingredients,
		events:      events,
	}
}

func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	customer, err := h.customers.CustomerByID(ctx, cmd.CustomerID, false)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("customer %d: %w", cmd.CustomerID, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("fetch customer %d: %w", cmd.CustomerID, err)
	}
	if !customer.CanPlaceOrder() {
		return nil, domain.NewValidationError("customer does not meet requirements to place orders")
	}

	// Snapshots are fetched once per distinct ingredient within the request.
	ingredientCache := make(map[int64]*domain.Ingredient)

	items := make([]*domain.OrderItem, 0, len(cmd.Items))
	for _, input := range cmd.Items {
		product, err := h.products.ProductByID(ctx, input.ProductID, false)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return nil, fmt.Errorf("product %d: %w", input.ProductID, ports.ErrNotFound)
			}
			return nil, fmt.Errorf("fetch product %d: %w", input.ProductID, err)
		}
		if !product.IsActive {
			return nil, domain.NewValidationError("product %d is deactivated and cannot be added to new orders", input.ProductID)
		}

		additional, err := h.resolveIngredients(ctx, input.AdditionalIngredientIDs, ingredientCache)
		if err != nil {
			return nil, err
		}
		remove, err := h.resolveIngredients(ctx, input.RemoveIngredientIDs, ingredientCache)
		if err != nil {
			return nil, err
		}

		item, err := domain.NewOrderItem(product, additional, remove)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	order, err := domain.NewOrder(cmd.CustomerID, items)
	if err != nil {
		return nil, err
	}
	order.SetStartDate()

	created, err := h.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderCreated(ctx, created.InternalID); err != nil {
		return created, fmt.Errorf("order saved but failed to publish event: %w", err)
	}

	return created, nil
}

func (h *CreateOrderCommandHandler) resolveIngredients(ctx context.Context, ids []int64, cache map[int64]*domain.Ingredient) ([]*domain.Ingredient, error) {
	var resolved []*domain.Ingredient
	for _, id := range ids {
		if cached, ok := cache[id]; ok {
			resolved = append(resolved, cached)
			continue
		}
		ingredient, err := h.ingredients.IngredientByID(ctx, id, false)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return nil, fmt.Errorf("ingredient %d: %w", id, ports.ErrNotFound)
			}
			return nil, fmt.Errorf("fetch ingredient %d: %w", id, err)
		}
		if !ingredient.IsActive {
			return nil, domain.NewValidationError("ingredient %d is deactivated and cannot be added to new orders", id)
		}
		cache[id] = ingredient
		resolved = append(resolved, ingredient)
	}
	return resolved, nil
}
