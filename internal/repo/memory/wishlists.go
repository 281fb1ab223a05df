package memory

import (
	"context"
	"slices"
	"sync"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type WishlistRepo struct {
	mu        sync.RWMutex
	wishlists map[uuid.UUID]domain.Wishlist
}

func NewWishlistRepo() *WishlistRepo {
	return &WishlistRepo{wishlists: make(map[uuid.UUID]domain.Wishlist)}
}

func (r *WishlistRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Wishlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wishlists[userID]
	if !ok {
		return nil, nil
	}
	w.Courses = slices.Clone(w.Courses)
	return &w, nil
}

func (r *WishlistRepo) Save(ctx context.Context, w *domain.Wishlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *w
	stored.Courses = slices.Clone(w.Courses)
	if stored.Courses == nil {
		stored.Courses = []uuid.UUID{}
	}
	r.wishlists[w.UserID] = stored
	return nil
}
