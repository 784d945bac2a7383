package ports

import (
	"context"

	"github.com/fastfood-platform/order-service/internal/orders/domain"
)

// CustomerCatalog fetches customer master data from the catalog service.
type CustomerCatalog interface {
	CustomerByID(ctx context.Context, id int64, includeInactive bool) (*domain.Customer, error)
}

// ProductCatalog fetches product master data from the catalog service.
type ProductCatalog interface {
	ProductByID(ctx context.Context, id int64, includeInactive bool) (*domain.Product, error)
}

// IngredientCatalog fetches ingredient master data from the catalog service.
type IngredientCatalog interface {
	IngredientByID(ctx context.Context, id int64, includeInactive bool) (*domain.Ingredient, error)
}
