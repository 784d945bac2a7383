package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fastfood-platform/order-service/internal/orders/domain"
	"github.com/fastfood-platform/order-service/internal/orders/ports"
)

// Repository is an in-memory order store used by tests and local runs.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{
		orders: make(map[int64]*domain.Order),
		nextID: 1,
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.InternalID = r.nextID
	r.nextID++
	order.SetDisplayID()

	for i, item := range order.Items {
		if item.InternalID == 0 {
			item.InternalID = order.InternalID*100 + int64(i) + 1
		}
	}

	r.orders[order.InternalID] = order
	return order, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sorted()

	skip := filter.Skip
	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *Repository) GetByStatus(_ context.Context, status domain.Status) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Order
	for _, order := range r.sorted() {
		if order.Status == status {
			result = append(result, order)
		}
	}
	return result, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id int64, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	order.Status = status
	return nil
}

func (r *Repository) Update(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.InternalID]; !ok {
		return ports.ErrNotFound
	}
	r.orders[order.InternalID] = order
	return nil
}

func (r *Repository) sorted() []*domain.Order {
	all := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		all = append(all, order)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].InternalID < all[j].InternalID })
	return all
}
