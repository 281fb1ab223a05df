package memory

import (
	"context"
	"slices"
	"sync"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type CartRepo struct {
	mu    sync.Mutex
	carts map[uuid.UUID]domain.Cart
}

func NewCartRepo() *CartRepo {
	return &CartRepo{carts: make(map[uuid.UUID]domain.Cart)}
}

func (r *CartRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	cart.Courses = slices.Clone(cart.Courses)
	return &cart, nil
}

func (r *CartRepo) Upsert(ctx context.Context, cart *domain.Cart, expectedVersion *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.carts[cart.UserID]
	if expectedVersion != nil && stored.Version != *expectedVersion {
		return domain.Conflict("Cart was modified concurrently, reload and retry")
	}
	if !exists {
		stored = domain.Cart{UserID: cart.UserID, CreatedAt: cart.UpdatedAt}
	}
	stored.Courses = slices.Clone(cart.Courses)
	if stored.Courses == nil {
		stored.Courses = []domain.CartCourse{}
	}
	stored.Version++
	stored.UpdatedAt = cart.UpdatedAt
	r.carts[cart.UserID] = stored

	cart.Version = stored.Version
	cart.CreatedAt = stored.CreatedAt
	cart.Courses = slices.Clone(stored.Courses)
	return nil
}
