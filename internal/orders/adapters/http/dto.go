package http

import (
	"time"

	"github.com/fastfood-platform/order-service/internal/orders/app"
	"github.com/fastfood-platform/order-service/internal/orders/app/commands"
	"github.com/fastfood-platform/order-service/internal/orders/domain"
)

type createOrderRequest struct {
	CustomerID int64              `json:"customer_internal_id"`
	Items      []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	ProductID               int64   `json:"product_internal_id"`
	AdditionalIngredientIDs []int64 `json:"additional_ingredient_ids"`
	RemoveIngredientIDs     []int64 `json:"remove_ingredient_ids"`
}

func (r createOrderRequest) toInput() app.CreateOrderInput {
	items := make([]commands.OrderItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, commands.OrderItemInput{
			ProductID:               item.ProductID,
			AdditionalIngredientIDs: item.AdditionalIngredientIDs,
			RemoveIngredientIDs:     item.RemoveIngredientIDs,
		})
	}
	return app.CreateOrderInput{CustomerID: r.CustomerID, Items: items}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type paymentConfirmRequest struct {
	TransactionID  string     `json:"transaction_id"`
	ApprovalStatus bool       `json:"approval_status"`
	Date           *time.Time `json:"date"`
	Message        string     `json:"message"`
}

type receiptEntryResponse struct {
	IngredientInternalID int64   `json:"ingredient_internal_id"`
	IngredientName       string  `json:"ingredient_name"`
	IngredientPrice      float64 `json:"ingredient_price"`
	Quantity             int     `json:"quantity"`
}

type orderItemResponse struct {
	InternalID              int64                  `json:"internal_id"`
	ProductInternalID       int64                  `json:"product_internal_id"`
	ProductName             string                 `json:"product_name"`
	ProductPrice            float64                `json:"product_price"`
	AdditionalIngredientIDs []int64                `json:"additional_ingredient_ids"`
	RemoveIngredientIDs     []int64                `json:"remove_ingredient_ids"`
	ItemReceipt             []receiptEntryResponse `json:"item_receipt"`
	Price                   float64                `json:"price"`
}

type orderResponse struct {
	InternalID           int64               `json:"internal_id"`
	DisplayID            string              `json:"order_display_id"`
	CustomerInternalID   int64               `json:"customer_internal_id"`
	Items                []orderItemResponse `json:"items"`
	Value                float64             `json:"value"`
	Status               string              `json:"status"`
	StartDate            *time.Time          `json:"start_date"`
	EndDate              *time.Time          `json:"end_date"`
	HasPaymentVerified   bool                `json:"has_payment_verified"`
	PaymentDate          *time.Time          `json:"payment_date"`
	PaymentTransactionID string              `json:"payment_transaction_id"`
	PaymentMessage       string              `json:"payment_message"`
	TotalItems           int                 `json:"total_items"`
}

type listOrdersResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int             `json:"total"`
}

type paymentStatusResponse struct {
	OrderInternalID    int64      `json:"order_internal_id"`
	HasPaymentVerified bool       `json:"has_payment_verified"`
	PaymentDate        *time.Time `json:"payment_date"`
	TransactionID      string     `json:"transaction_id"`
	Message            string     `json:"message"`
	Value              float64    `json:"value"`
	Status             string     `json:"status"`
}

type paymentInitiationResponse struct {
	OrderInternalID int64   `json:"order_internal_id"`
	Amount          float64 `json:"amount"`
	TransactionID   string  `json:"transaction_id"`
	PaymentURL      string  `json:"payment_url"`
	ExpiresAt       string  `json:"expires_at"`
}

func toOrderResponse(order *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, toOrderItemResponse(item))
	}

	return orderResponse{
		InternalID:           order.InternalID,
		DisplayID:            order.DisplayID,
		CustomerInternalID:   order.CustomerID,
		Items:                items,
		Value:                order.Value.Float64(),
		Status:               string(order.Status),
		StartDate:            order.StartDate,
		EndDate:              order.EndDate,
		HasPaymentVerified:   order.HasPaymentVerified,
		PaymentDate:          order.PaymentDate,
		PaymentTransactionID: order.PaymentTransactionID,
		PaymentMessage:       order.PaymentMessage,
		TotalItems:           order.TotalItems(),
	}
}

func toOrderItemResponse(item *domain.OrderItem) orderItemResponse {
	receipt := make([]receiptEntryResponse, 0, len(item.Receipt))
	for _, entry := range item.Receipt {
		receipt = append(receipt, receiptEntryResponse{
			IngredientInternalID: entry.Ingredient.InternalID,
			IngredientName:       entry.Ingredient.Name.String(),
			IngredientPrice:      entry.Ingredient.Price.Float64(),
			Quantity:             entry.Quantity,
		})
	}

	return orderItemResponse{
		InternalID:              item.InternalID,
		ProductInternalID:       item.Product.InternalID,
		ProductName:             item.Product.Name.String(),
		ProductPrice:            item.Product.Price.Float64(),
		AdditionalIngredientIDs: ingredientIDs(item.AdditionalIngredients),
		RemoveIngredientIDs:     ingredientIDs(item.RemoveIngredients),
		ItemReceipt:             receipt,
		Price:                   item.Price.Float64(),
	}
}

func toOrderListResponse(orders []*domain.Order) listOrdersResponse {
	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}
	return listOrdersResponse{Orders: responses, Total: len(responses)}
}

func ingredientIDs(ingredients []*domain.Ingredient) []int64 {
	ids := make([]int64, 0, len(ingredients))
	for _, ingredient := range ingredients {
		ids = append(ids, ingredient.InternalID)
	}
	return ids
}
