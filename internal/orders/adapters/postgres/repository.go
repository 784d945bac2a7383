package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fastfood-platform/order-service/internal/orders/domain"
	"github.com/fastfood-platform/order-service/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists orders in Postgres. Nested ingredient collections are
// stored as JSONB arrays of catalog identifiers; rehydration re-fetches the
// full snapshots through the catalog ports.
type Repository struct {
	pool        *pgxpool.Pool
	products    ports.ProductCatalog
	ingredients ports.IngredientCatalog
	logger      *slog.Logger
}

func NewRepository(pool *pgxpool.Pool, products ports.ProductCatalog, ingredients ports.IngredientCatalog, logger *slog.Logger) *Repository {
	return &Repository{
		pool:        pool,
		products:    products,
		ingredients: ingredients,
		logger:      logger,
	}
}

// receiptRecord is the JSONB shape of one receipt entry.
type receiptRecord struct {
	IngredientInternalID int64 `json:"ingredient_internal_id"`
	Quantity             int   `json:"quantity"`
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO orders (
			customer_internal_id, value, status, start_date, end_date,
			has_payment_verified, payment_date, payment_transaction_id,
			payment_message, order_display_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING internal_id
	`

	var orderID int64
	err = tx.QueryRow(ctx, query,
		order.CustomerID,
		order.Value.Float64(),
		order.Status,
		order.StartDate,
		order.EndDate,
		order.HasPaymentVerified,
		order.PaymentDate,
		order.PaymentTransactionID,
		order.PaymentMessage,
		order.DisplayID,
	).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	displayID := order.DisplayID
	if displayID == "" {
		displayID = domain.DisplayID(orderID)
		if _, err := tx.Exec(ctx, `UPDATE orders SET order_display_id = $1 WHERE internal_id = $2`, displayID, orderID); err != nil {
			return nil, fmt.Errorf("set order display id: %w", err)
		}
	}

	itemQuery := `
		INSERT INTO order_items (
			order_internal_id, product_internal_id,
			additional_ingredient_ids, remove_ingredient_ids,
			item_receipt, price
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING internal_id
	`

	for _, item := range order.Items {
		if item.Product == nil || item.Product.InternalID == 0 {
			return nil, fmt.Errorf("order item must reference a catalog product")
		}
		err = tx.QueryRow(ctx, itemQuery,
			orderID,
			item.Product.InternalID,
			ingredientIDs(item.AdditionalIngredients),
			ingredientIDs(item.RemoveIngredients),
			receiptRecords(item.Receipt),
			item.Price.Float64(),
		).Scan(&item.InternalID)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	order.InternalID = orderID
	order.DisplayID = displayID
	return order, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row, err := r.fetchOrderRow(ctx, `WHERE internal_id = $1`, id)
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, row)
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	skip := filter.Skip
	if skip < 0 {
		skip = 0
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.fetchOrderRows(ctx, `ORDER BY internal_id LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		return nil, err
	}
	return r.hydrateAll(ctx, rows)
}

func (r *Repository) GetByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	rows, err := r.fetchOrderRows(ctx, `WHERE status = $1 ORDER BY internal_id`, string(status))
	if err != nil {
		return nil, err
	}
	return r.hydrateAll(ctx, rows)
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE internal_id = $3
	`

	result, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	return nil
}

func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET value = $1,
		    status = $2,
		    start_date = $3,
		    end_date = $4,
		    has_payment_verified = $5,
		    payment_date = $6,
		    payment_transaction_id = $7,
		    payment_message = $8,
		    order_display_id = $9,
		    updated_at = $10
		WHERE internal_id = $11
	`

	result, err := r.pool.Exec(ctx, query,
		order.Value.Float64(),
		order.Status,
		order.StartDate,
		order.EndDate,
		order.HasPaymentVerified,
		order.PaymentDate,
		order.PaymentTransactionID,
		order.PaymentMessage,
		order.DisplayID,
		time.Now().UTC(),
		order.InternalID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	return nil
}

// orderRow mirrors the orders table plus its item rows.
type orderRow struct {
	InternalID           int64
	CustomerID           int64
	Value                float64
	Status               string
	StartDate            *time.Time
	EndDate              *time.Time
	HasPaymentVerified   bool
	PaymentDate          *time.Time
	PaymentTransactionID string
	PaymentMessage       string
	DisplayID            string
	Items                []itemRow
}

type itemRow struct {
	InternalID    int64
	ProductID     int64
	AdditionalIDs []int64
	RemoveIDs     []int64
	Receipt       []receiptRecord
	Price         float64
}

const orderColumns = `
	internal_id, customer_internal_id, value, status, start_date, end_date,
	has_payment_verified, payment_date, payment_transaction_id,
	payment_message, order_display_id
`

func (r *Repository) fetchOrderRow(ctx context.Context, where string, args ...any) (*orderRow, error) {
	row := orderRow{}
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders `+where, args...).Scan(
		&row.InternalID,
		&row.CustomerID,
		&row.Value,
		&row.Status,
		&row.StartDate,
		&row.EndDate,
		&row.HasPaymentVerified,
		&row.PaymentDate,
		&row.PaymentTransactionID,
		&row.PaymentMessage,
		&row.DisplayID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := r.fetchItems(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) fetchOrderRows(ctx context.Context, clause string, args ...any) ([]*orderRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var result []*orderRow
	for rows.Next() {
		row := orderRow{}
		if err := rows.Scan(
			&row.InternalID,
			&row.CustomerID,
			&row.Value,
			&row.Status,
			&row.StartDate,
			&row.EndDate,
			&row.HasPaymentVerified,
			&row.PaymentDate,
			&row.PaymentTransactionID,
			&row.PaymentMessage,
			&row.DisplayID,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for _, row := range result {
		if err := r.fetchItems(ctx, row); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *Repository) fetchItems(ctx context.Context, order *orderRow) error {
	query := `
		SELECT internal_id, product_internal_id, additional_ingredient_ids,
		       remove_ingredient_ids, item_receipt, price
		FROM order_items
		WHERE order_internal_id = $1
		ORDER BY internal_id
	`

	rows, err := r.pool.Query(ctx, query, order.InternalID)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := itemRow{}
		if err := rows.Scan(
			&item.InternalID,
			&item.ProductID,
			&item.AdditionalIDs,
			&item.RemoveIDs,
			&item.Receipt,
			&item.Price,
		); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

// hydrate rebuilds the aggregate from a row, re-fetching product and
// ingredient snapshots. Products and ingredients are loaded once per order.
// Missing ingredients are logged and omitted; a missing product makes the
// order unreconstructable and is a hard error.
func (r *Repository) hydrate(ctx context.Context, row *orderRow) (*domain.Order, error) {
	productCache, err := r.loadProducts(ctx, row)
	if err != nil {
		return nil, err
	}
	ingredientCache := r.loadIngredients(ctx, row)

	items := make([]*domain.OrderItem, 0, len(row.Items))
	for _, itemRow := range row.Items {
		product := productCache[itemRow.ProductID]
		if product == nil {
			return nil, fmt.Errorf("order %d: product %d: %w", row.InternalID, itemRow.ProductID, ports.ErrNotFound)
		}

		price, err := domain.MoneyFromFloat(itemRow.Price)
		if err != nil {
			return nil, fmt.Errorf("order %d: item %d price: %w", row.InternalID, itemRow.InternalID, err)
		}

		item, err := domain.RehydrateOrderItem(
			itemRow.InternalID,
			product,
			r.pickIngredients(row.InternalID, itemRow.AdditionalIDs, ingredientCache),
			r.pickIngredients(row.InternalID, itemRow.RemoveIDs, ingredientCache),
			r.pickReceipt(row.InternalID, itemRow.Receipt, ingredientCache),
			price,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	value, err := domain.MoneyFromFloat(row.Value)
	if err != nil {
		return nil, fmt.Errorf("order %d value: %w", row.InternalID, err)
	}
	status, err := domain.ParseStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", row.InternalID, err)
	}

	return domain.RehydrateOrder(domain.OrderSnapshot{
		InternalID:           row.InternalID,
		CustomerID:           row.CustomerID,
		Items:                items,
		Value:                value,
		Status:               status,
		StartDate:            row.StartDate,
		EndDate:              row.EndDate,
		HasPaymentVerified:   row.HasPaymentVerified,
		PaymentDate:          row.PaymentDate,
		PaymentTransactionID: row.PaymentTransactionID,
		PaymentMessage:       row.PaymentMessage,
		DisplayID:            row.DisplayID,
	})
}

func (r *Repository) hydrateAll(ctx context.Context, rows []*orderRow) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		order, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *Repository) loadProducts(ctx context.Context, row *orderRow) (map[int64]*domain.Product, error) {
	cache := make(map[int64]*domain.Product)
	for _, item := range row.Items {
		if _, ok := cache[item.ProductID]; ok {
			continue
		}
		product, err := r.products.ProductByID(ctx, item.ProductID, true)
		if err != nil {
			return nil, fmt.Errorf("order %d: load product %d: %w", row.InternalID, item.ProductID, err)
		}
		cache[item.ProductID] = product
	}
	return cache, nil
}

func (r *Repository) loadIngredients(ctx context.Context, row *orderRow) map[int64]*domain.Ingredient {
	ids := make(map[int64]bool)
	for _, item := range row.Items {
		for _, id := range item.AdditionalIDs {
			ids[id] = true
		}
		for _, id := range item.RemoveIDs {
			ids[id] = true
		}
		for _, entry := range item.Receipt {
			ids[entry.IngredientInternalID] = true
		}
	}

	cache := make(map[int64]*domain.Ingredient, len(ids))
	for id := range ids {
		ingredient, err := r.ingredients.IngredientByID(ctx, id, true)
		if err != nil {
			r.logger.WarnContext(ctx, "could not load ingredient for order",
				"order_internal_id", row.InternalID,
				"ingredient_internal_id", id,
				"error", err,
			)
			continue
		}
		cache[id] = ingredient
	}
	return cache
}

func (r *Repository) pickIngredients(orderID int64, ids []int64, cache map[int64]*domain.Ingredient) []*domain.Ingredient {
	var result []*domain.Ingredient
	for _, id := range ids {
		ingredient, ok := cache[id]
		if !ok {
			r.logger.Warn("omitting unresolved ingredient",
				"order_internal_id", orderID,
				"ingredient_internal_id", id,
			)
			continue
		}
		result = append(result, ingredient)
	}
	return result
}

func (r *Repository) pickReceipt(orderID int64, records []receiptRecord, cache map[int64]*domain.Ingredient) []domain.ReceiptItem {
	var receipt []domain.ReceiptItem
	for _, record := range records {
		ingredient, ok := cache[record.IngredientInternalID]
		if !ok {
			r.logger.Warn("omitting unresolved receipt ingredient",
				"order_internal_id", orderID,
				"ingredient_internal_id", record.IngredientInternalID,
			)
			continue
		}
		receipt = append(receipt, domain.ReceiptItem{Ingredient: ingredient, Quantity: record.Quantity})
	}
	return receipt
}

func ingredientIDs(ingredients []*domain.Ingredient) []int64 {
	ids := make([]int64, 0, len(ingredients))
	for _, ingredient := range ingredients {
		if ingredient.InternalID != 0 {
			ids = append(ids, ingredient.InternalID)
		}
	}
	return ids
}

func receiptRecords(receipt []domain.ReceiptItem) []receiptRecord {
	records := make([]receiptRecord, 0, len(receipt))
	for _, item := range receipt {
		if item.Ingredient.InternalID == 0 {
			continue
		}
		records = append(records, receiptRecord{
			IngredientInternalID: item.Ingredient.InternalID,
			Quantity:             item.Quantity,
		})
	}
	return records
}
