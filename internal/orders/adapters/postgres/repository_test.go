//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fastfood-platform/order-service/internal/database"
	"github.com/fastfood-platform/order-service/internal/orders/adapters/postgres"
	"github.com/fastfood-platform/order-service/internal/orders/domain"
	"github.com/fastfood-platform/order-service/internal/orders/ports"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	testpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := testpostgres.Run(ctx,
		"postgres:16-alpine",
		testpostgres.WithDatabase("test"),
		testpostgres.WithUsername("test"),
		testpostgres.WithPassword("test"),
		testpostgres.BasicWaitStrategies(),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	projectRoot := findProjectRoot(t)
	migrationsPath := filepath.Join(projectRoot, "migrations")

	if err := database.RunMigrations(connStr, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

type stubProductCatalog struct {
	products map[int64]*domain.Product
}

func (s *stubProductCatalog) ProductByID(_ context.Context, id int64, _ bool) (*domain.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return product, nil
}

type stubIngredientCatalog struct {
	ingredients map[int64]*domain.Ingredient
}

func (s *stubIngredientCatalog) IngredientByID(_ context.Context, id int64, _ bool) (*domain.Ingredient, error) {
	ingredient, ok := s.ingredients[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return ingredient, nil
}

type fixtures struct {
	bread   *domain.Ingredient
	cheese  *domain.Ingredient
	product *domain.Product
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()

	mustName := func(value string) domain.Name {
		name, err := domain.NewName(value)
		if err != nil {
			t.Fatalf("name: %v", err)
		}
		return name
	}
	mustMoney := func(value float64) domain.Money {
		money, err := domain.MoneyFromFloat(value)
		if err != nil {
			t.Fatalf("money: %v", err)
		}
		return money
	}

	bread, err := domain.NewIngredient(1, mustName("Bread"), mustMoney(1.00), true, domain.IngredientBread, true, false, false, false)
	if err != nil {
		t.Fatalf("ingredient: %v", err)
	}
	cheese, err := domain.NewIngredient(2, mustName("Cheese"), mustMoney(2.00), true, domain.IngredientCheese, true, false, false, false)
	if err != nil {
		t.Fatalf("ingredient: %v", err)
	}

	sku, err := domain.NewSKU("BUR-0001-STD")
	if err != nil {
		t.Fatalf("sku: %v", err)
	}
	product, err := domain.NewProduct(10, mustName("Classic Burger"), mustMoney(15.00), domain.CategoryBurger, sku,
		[]domain.ReceiptItem{{Ingredient: bread, Quantity: 2}}, true)
	if err != nil {
		t.Fatalf("product: %v", err)
	}

	return fixtures{bread: bread, cheese: cheese, product: product}
}

func newTestRepository(t *testing.T, pool *pgxpool.Pool, f fixtures) *postgres.Repository {
	t.Helper()

	return postgres.NewRepository(
		pool,
		&stubProductCatalog{products: map[int64]*domain.Product{f.product.InternalID: f.product}},
		&stubIngredientCatalog{ingredients: map[int64]*domain.Ingredient{
			f.bread.InternalID:  f.bread,
			f.cheese.InternalID: f.cheese,
		}},
		slog.New(slog.NewTextHandler(os.Stderr, nil)),
	)
}

func newTestOrder(t *testing.T, f fixtures) *domain.Order {
	t.Helper()

	item, err := domain.NewOrderItem(f.product, []*domain.Ingredient{f.cheese}, nil)
	if err != nil {
		t.Fatalf("order item: %v", err)
	}
	order, err := domain.NewOrder(42, []*domain.OrderItem{item})
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	order.SetStartDate()
	return order
}

func TestRepositoryCreateAndGetByID(t *testing.T) {
	pool := setupTestDB(t)
	f := newFixtures(t)
	repo := newTestRepository(t, pool, f)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestOrder(t, f))
	if err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	if created.InternalID == 0 {
		t.Fatal("expected internal id to be assigned")
	}
	if created.DisplayID != "001" {
		t.Errorf("expected display id 001, got %q", created.DisplayID)
	}

	retrieved, err := repo.GetByID(ctx, created.InternalID)
	if err != nil {
		t.Fatalf("failed to retrieve order: %v", err)
	}

	if retrieved.CustomerID != 42 {
		t.Errorf("expected customer 42, got %d", retrieved.CustomerID)
	}
	if got := retrieved.Value.Float64(); got != 17.00 {
		t.Errorf("expected value 17.00, got %v", got)
	}
	if retrieved.Status != domain.StatusRecebido {
		t.Errorf("expected status %s, got %s", domain.StatusRecebido, retrieved.Status)
	}
	if len(retrieved.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(retrieved.Items))
	}

	item := retrieved.Items[0]
	if item.Product.InternalID != f.product.InternalID {
		t.Errorf("expected product %d, got %d", f.product.InternalID, item.Product.InternalID)
	}
	if len(item.AdditionalIngredients) != 1 || item.AdditionalIngredients[0].InternalID != f.cheese.InternalID {
		t.Errorf("expected cheese as additional ingredient, got %+v", item.AdditionalIngredients)
	}
	if len(item.Receipt) != 2 {
		t.Fatalf("expected 2 receipt entries, got %d", len(item.Receipt))
	}
	if item.Receipt[0].Ingredient.InternalID != f.bread.InternalID || item.Receipt[0].Quantity != 2 {
		t.Errorf("expected bread x2 first, got %+v", item.Receipt[0])
	}
}

func TestRepositoryGetByID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	f := newFixtures(t)
	repo := newTestRepository(t, pool, f)

	_, err := repo.GetByID(context.Background(), 9999)
	if !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryList(t *testing.T) {
	pool := setupTestDB(t)
	f := newFixtures(t)
	repo := newTestRepository(t, pool, f)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.Create(ctx, newTestOrder(t, f)); err != nil {
			t.Fatalf("failed to create order: %v", err)
		}
	}

	t.Run("list all orders", func(t *testing.T) {
		result, err := repo.List(ctx, ports.ListFilter{})
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}
		if len(result) != 3 {
			t.Errorf("expected 3 orders, got %d", len(result))
		}
		if result[0].InternalID != 1 {
			t.Errorf("expected orders sorted by internal id, got %d first", result[0].InternalID)
		}
	})

	t.Run("skip and limit", func(t *testing.T) {
		result, err := repo.List(ctx, ports.ListFilter{Skip: 1, Limit: 1})
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}
		if len(result) != 1 {
			t.Fatalf("expected 1 order, got %d", len(result))
		}
		if result[0].InternalID != 2 {
			t.Errorf("expected order 2, got %d", result[0].InternalID)
		}
	})

	t.Run("skip past the end", func(t *testing.T) {
		result, err := repo.List(ctx, ports.ListFilter{Skip: 10})
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}
		if len(result) != 0 {
			t.Errorf("expected no orders, got %d", len(result))
		}
	})
}

func TestRepositoryGetByStatus(t *testing.T) {
	pool := setupTestDB(t)
	f := newFixtures(t)
	repo := newTestRepository(t, pool, f)
	ctx := context.Background()

	first, err := repo.Create(ctx, newTestOrder(t, f))
	if err != nil {
		t.Fatalf("failed to create order: %v", err)
	}
	if _, err := repo.Create(ctx, newTestOrder(t, f)); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	if err := repo.UpdateStatus(ctx, first.InternalID, domain.StatusPronto); err != nil {
		t.Fatalf("failed to update status: %v", err)
	}

	ready, err := repo.GetByStatus(ctx, domain.StatusPronto)
	if err != nil {
		t.Fatalf("failed to get orders by status: %v", err)
	}
	if len(ready) != 1 || ready[0].InternalID != first.InternalID {
		t.Errorf("expected only order %d in PRONTO, got %+v", first.InternalID, ready)
	}

	received, err := repo.GetByStatus(ctx, domain.StatusRecebido)
	if err != nil {
		t.Fatalf("failed to get orders by status: %v", err)
	}
	if len(received) != 1 {
		t.Errorf("expected 1 order in RECEBIDO, got %d", len(received))
	}
}

func TestRepositoryUpdateStatus_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	f := newFixtures(t)
	repo := newTestRepository(t, pool, f)

	err := repo.UpdateStatus(context.Background(), 9999, domain.StatusPronto)
	if !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryUpdate(t *testing.T) {
	pool := setupTestDB(t)
	f := newFixtures(t)
	repo := newTestRepository(t, pool, f)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestOrder(t, f))
	if err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	now := time.Now().UTC()
	if err := created.ProcessPayment(domain.Payment{
		TransactionID:  "tx-99",
		ApprovalStatus: true,
		Date:           &now,
		Message:        "approved",
	}); err != nil {
		t.Fatalf("failed to process payment: %v", err)
	}

	if err := repo.Update(ctx, created); err != nil {
		t.Fatalf("failed to update order: %v", err)
	}

	updated, err := repo.GetByID(ctx, created.InternalID)
	if err != nil {
		t.Fatalf("failed to retrieve order: %v", err)
	}

	if !updated.HasPaymentVerified {
		t.Error("expected payment verified")
	}
	if updated.Status != domain.StatusEmPreparacao {
		t.Errorf("expected status %s, got %s", domain.StatusEmPreparacao, updated.Status)
	}
	if updated.PaymentTransactionID != "tx-99" {
		t.Errorf("expected transaction id tx-99, got %q", updated.PaymentTransactionID)
	}
}
