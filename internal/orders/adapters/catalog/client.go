package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fastfood-platform/order-service/internal/orders/domain"
	"github.com/fastfood-platform/order-service/internal/orders/ports"
	"github.com/google/uuid"
)

// Client talks to the catalog service over HTTP. It implements the customer,
// product and ingredient catalog ports.
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

type customerDTO struct {
	InternalID  int64  `json:"internal_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Document    string `json:"document"`
	IsActive    bool   `json:"is_active"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type ingredientDTO struct {
	InternalID       int64   `json:"internal_id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	IsActive         bool    `json:"is_active"`
	Type             string  `json:"type"`
	AppliesToBurger  bool    `json:"applies_to_burger"`
	AppliesToSide    bool    `json:"applies_to_side"`
	AppliesToDrink   bool    `json:"applies_to_drink"`
	AppliesToDessert bool    `json:"applies_to_dessert"`
}

type defaultIngredientDTO struct {
	Ingredient ingredientDTO `json:"ingredient"`
	Quantity   int           `json:"quantity"`
}

type productDTO struct {
	InternalID         int64                  `json:"internal_id"`
	Name               string                 `json:"name"`
	Price              float64                `json:"price"`
	Category           string                 `json:"category"`
	SKU                string                 `json:"sku"`
	DefaultIngredients []defaultIngredientDTO `json:"default_ingredients"`
	IsActive           bool                   `json:"is_active"`
}

func (c *Client) CustomerByID(ctx context.Context, id int64, includeInactive bool) (*domain.Customer, error) {
	var dto customerDTO
	if err := c.get(ctx, fmt.Sprintf("/customer/by-id/%d", id), includeInactive, &dto); err != nil {
		return nil, err
	}
	return toCustomer(dto)
}

func (c *Client) ProductByID(ctx context.Context, id int64, includeInactive bool) (*domain.Product, error) {
	var dto productDTO
	if err := c.get(ctx, fmt.Sprintf("/product/by-id/%d", id), includeInactive, &dto); err != nil {
		return nil, err
	}
	return toProduct(dto)
}

func (c *Client) IngredientByID(ctx context.Context, id int64, includeInactive bool) (*domain.Ingredient, error) {
	var dto ingredientDTO
	if err := c.get(ctx, fmt.Sprintf("/ingredient/by-id/%d", id), includeInactive, &dto); err != nil {
		return nil, err
	}
	return toIngredient(dto)
}

func (c *Client) get(ctx context.Context, path string, includeInactive bool, out any) error {
	url := c.baseURL + path + "?include_inactive=" + strconv.FormatBool(includeInactive)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request %s: %w", path, ports.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ports.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("catalog request %s returned %d: %w", path, resp.StatusCode, ports.ErrRejected)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response %s: %w", path, err)
	}
	return nil
}

func toCustomer(dto customerDTO) (*domain.Customer, error) {
	firstName, err := domain.NewName(dto.FirstName)
	if err != nil {
		return nil, fmt.Errorf("customer %d: %w", dto.InternalID, err)
	}
	lastName, err := domain.NewName(dto.LastName)
	if err != nil {
		return nil, fmt.Errorf("customer %d: %w", dto.InternalID, err)
	}
	email, err := domain.NewEmail(dto.Email)
	if err != nil {
		return nil, fmt.Errorf("customer %d: %w", dto.InternalID, err)
	}
	document, err := domain.NewDocument(dto.Document)
	if err != nil {
		return nil, fmt.Errorf("customer %d: %w", dto.InternalID, err)
	}

	return &domain.Customer{
		InternalID:  dto.InternalID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Document:    document,
		IsActive:    dto.IsActive,
		IsAnonymous: dto.IsAnonymous,
	}, nil
}

func toIngredient(dto ingredientDTO) (*domain.Ingredient, error) {
	name, err := domain.NewName(dto.Name)
	if err != nil {
		return nil, fmt.Errorf("ingredient %d: %w", dto.InternalID, err)
	}
	price, err := domain.MoneyFromFloat(dto.Price)
	if err != nil {
		return nil, fmt.Errorf("ingredient %d: %w", dto.InternalID, err)
	}
	ingredientType, err := domain.ParseIngredientType(dto.Type)
	if err != nil {
		return nil, fmt.Errorf("ingredient %d: %w", dto.InternalID, err)
	}

	return domain.NewIngredient(
		dto.InternalID,
		name,
		price,
		dto.IsActive,
		ingredientType,
		dto.AppliesToBurger,
		dto.AppliesToSide,
		dto.AppliesToDrink,
		dto.AppliesToDessert,
	)
}

func toProduct(dto productDTO) (*domain.Product, error) {
	name, err := domain.NewName(dto.Name)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", dto.InternalID, err)
	}
	price, err := domain.MoneyFromFloat(dto.Price)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", dto.InternalID, err)
	}
	category, err := domain.ParseProductCategory(dto.Category)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", dto.InternalID, err)
	}
	sku, err := domain.NewSKU(dto.SKU)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", dto.InternalID, err)
	}

	defaults := make([]domain.ReceiptItem, 0, len(dto.DefaultIngredients))
	for _, entry := range dto.DefaultIngredients {
		ingredient, err := toIngredient(entry.Ingredient)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", dto.InternalID, err)
		}
		defaults = append(defaults, domain.ReceiptItem{Ingredient: ingredient, Quantity: entry.Quantity})
	}

	return domain.NewProduct(dto.InternalID, name, price, category, sku, defaults, dto.IsActive)
}
