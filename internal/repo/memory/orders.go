package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type OrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]domain.Order

	// FailCreate makes CreateOrder return this error when set.
	FailCreate error
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: make(map[uuid.UUID]domain.Order)}
}

func cloneOrder(o domain.Order) domain.Order {
	o.Courses = slices.Clone(o.Courses)
	return o
}

func (r *OrderRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate != nil {
		return r.FailCreate
	}
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r *OrderRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	order = cloneOrder(order)
	return &order, nil
}

func (r *OrderRepo) UpdateOrderStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return domain.NotFound("Order not found")
	}
	if stored.Status != from {
		return domain.Conflict("Order %s is already %s", order.ID, stored.Status)
	}
	stored.Status = order.Status
	stored.GatewayPaymentID = order.GatewayPaymentID
	stored.UpdatedAt = order.UpdatedAt
	r.orders[order.ID] = stored
	return nil
}

func (r *OrderRepo) filter(keep func(domain.Order) bool) []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Order{}
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

func newestFirst(a, b domain.Order) int { return b.CreatedAt.Compare(a.CreatedAt) }

func (r *OrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	out := r.filter(func(o domain.Order) bool { return o.UserID == userID })
	slices.SortFunc(out, newestFirst)
	return out, nil
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	out := r.filter(func(domain.Order) bool { return true })
	slices.SortFunc(out, newestFirst)
	return out, nil
}

func (r *OrderRepo) FindStuckOrders(ctx context.Context, before time.Time, limit int) ([]domain.Order, error) {
	out := r.filter(func(o domain.Order) bool {
		return o.Status == domain.OrderPending && o.UpdatedAt.Before(before)
	})
	slices.SortFunc(out, func(a, b domain.Order) int { return a.UpdatedAt.Compare(b.UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
