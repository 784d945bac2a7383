package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fastfood-platform/order-service/internal/orders/adapters/catalog"
	"github.com/fastfood-platform/order-service/internal/orders/domain"
	"github.com/fastfood-platform/order-service/internal/orders/ports"
)

const customerBody = `{
	"internal_id": 42,
	"first_name": "john",
	"last_name": "doe",
	"email": "John@Example.com",
	"document": "52998224725",
	"is_active": true,
	"is_anonymous": false
}`

const ingredientBody = `{
	"internal_id": 2,
	"name": "cheddar",
	"price": 2.50,
	"is_active": true,
	"type": "cheese",
	"applies_to_burger": true
}`

const productBody = `{
	"internal_id": 10,
	"name": "classic burger",
	"price": 15.00,
	"category": "burger",
	"sku": "BUR-0001-STD",
	"is_active": true,
	"default_ingredients": [
		{"ingredient": {"internal_id": 1, "name": "bread", "price": 1.00, "is_active": true, "type": "bread", "applies_to_burger": true}, "quantity": 2}
	]
}`

func newCatalogServer(t *testing.T) (*httptest.Server, *http.Request) {
	t.Helper()

	var captured http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/customer/by-id/42":
			_, _ = w.Write([]byte(customerBody))
		case "/ingredient/by-id/2":
			_, _ = w.Write([]byte(ingredientBody))
		case "/product/by-id/10":
			_, _ = w.Write([]byte(productBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func TestCustomerByID(t *testing.T) {
	server, captured := newCatalogServer(t)
	client := catalog.NewClient(server.URL, server.Client())

	customer, err := client.CustomerByID(context.Background(), 42, true)
	if err != nil {
		t.Fatalf("customer by id: %v", err)
	}

	if customer.InternalID != 42 {
		t.Errorf("expected internal id 42, got %d", customer.InternalID)
	}
	if got := customer.FirstName.String(); got != "John" {
		t.Errorf("expected first name John, got %q", got)
	}
	if got := customer.Email.String(); got != "john@example.com" {
		t.Errorf("expected lowered email, got %q", got)
	}
	if !customer.IsActive {
		t.Error("expected active customer")
	}

	if got := captured.URL.Query().Get("include_inactive"); got != "true" {
		t.Errorf("expected include_inactive=true, got %q", got)
	}
	if captured.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestIngredientByID(t *testing.T) {
	server, captured := newCatalogServer(t)
	client := catalog.NewClient(server.URL, server.Client())

	ingredient, err := client.IngredientByID(context.Background(), 2, false)
	if err != nil {
		t.Fatalf("ingredient by id: %v", err)
	}

	if ingredient.Type != domain.IngredientCheese {
		t.Errorf("expected cheese type, got %q", ingredient.Type)
	}
	if got := ingredient.Price.Float64(); got != 2.50 {
		t.Errorf("expected price 2.50, got %v", got)
	}
	if !ingredient.AppliesToBurger {
		t.Error("expected burger-applicable ingredient")
	}

	if got := captured.URL.Query().Get("include_inactive"); got != "false" {
		t.Errorf("expected include_inactive=false, got %q", got)
	}
}

func TestProductByID(t *testing.T) {
	server, _ := newCatalogServer(t)
	client := catalog.NewClient(server.URL, server.Client())

	product, err := client.ProductByID(context.Background(), 10, false)
	if err != nil {
		t.Fatalf("product by id: %v", err)
	}

	if product.Category != domain.CategoryBurger {
		t.Errorf("expected burger category, got %q", product.Category)
	}
	if got := product.SKU.String(); got != "BUR-0001-STD" {
		t.Errorf("unexpected sku %q", got)
	}
	if len(product.DefaultIngredients) != 1 {
		t.Fatalf("expected 1 default ingredient, got %d", len(product.DefaultIngredients))
	}
	entry := product.DefaultIngredients[0]
	if entry.Ingredient.InternalID != 1 || entry.Quantity != 2 {
		t.Errorf("unexpected default ingredient: id=%d qty=%d", entry.Ingredient.InternalID, entry.Quantity)
	}
}

func TestClientErrorMapping(t *testing.T) {
	t.Run("404 maps to not found", func(t *testing.T) {
		server, _ := newCatalogServer(t)
		client := catalog.NewClient(server.URL, server.Client())

		_, err := client.CustomerByID(context.Background(), 999, false)
		if !errors.Is(err, ports.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("5xx maps to rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(server.Close)
		client := catalog.NewClient(server.URL, server.Client())

		_, err := client.ProductByID(context.Background(), 10, false)
		if !errors.Is(err, ports.ErrRejected) {
			t.Errorf("expected ErrRejected, got %v", err)
		}
	})

	t.Run("transport failure maps to unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()
		client := catalog.NewClient(server.URL, nil)

		_, err := client.IngredientByID(context.Background(), 2, false)
		if !errors.Is(err, ports.ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("invalid payload surfaces decode error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"internal_id": "not a number"}`))
		}))
		t.Cleanup(server.Close)
		client := catalog.NewClient(server.URL, server.Client())

		_, err := client.CustomerByID(context.Background(), 42, false)
		if err == nil {
			t.Fatal("expected decode error")
		}
	})
}
