// Package memory implements the repo interfaces over mutex-guarded maps.
// It backs the service tests and STORE_DRIVER=memory runs.
package memory

import (
	"coursehub/internal/repo"
)

// Store bundles one in-memory repository per collection.
type Store struct {
	Users     *UserRepo
	Courses   *CourseRepo
	Carts     *CartRepo
	Orders    *OrderRepo
	Progress  *ProgressRepo
	Reviews   *ReviewRepo
	Wishlists *WishlistRepo
}

func NewStore() *Store {
	return &Store{
		Users:     NewUserRepo(),
		Courses:   NewCourseRepo(),
		Carts:     NewCartRepo(),
		Orders:    NewOrderRepo(),
		Progress:  NewProgressRepo(),
		Reviews:   NewReviewRepo(),
		Wishlists: NewWishlistRepo(),
	}
}

var (
	_ repo.UserRepo     = (*UserRepo)(nil)
	_ repo.CourseRepo   = (*CourseRepo)(nil)
	_ repo.CartRepo     = (*CartRepo)(nil)
	_ repo.OrderRepo    = (*OrderRepo)(nil)
	_ repo.ProgressRepo = (*ProgressRepo)(nil)
	_ repo.ReviewRepo   = (*ReviewRepo)(nil)
	_ repo.WishlistRepo = (*WishlistRepo)(nil)
)
