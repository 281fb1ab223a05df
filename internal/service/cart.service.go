package service

import (
	"context"
	"fmt"
	"time"

	"coursehub/internal/domain"
	"coursehub/internal/repo"

	"github.com/google/uuid"
)

type CartService interface {
	// UpsertCart replaces the caller's cart. expectedVersion, when set, must
	// match the stored version.
	UpsertCart(ctx context.Context, id domain.Identity, items []domain.CartItemInput, expectedVersion *int) (*domain.Cart, error)
	GetCart(ctx context.Context, id domain.Identity) (*domain.CartView, error)
}

type cartService struct {
	carts   repo.CartRepo
	courses repo.CourseRepo
	now     func() time.Time
}

func NewCartService(carts repo.CartRepo, courses repo.CourseRepo, now func() time.Time) CartService {
	if now == nil {
		now = time.Now
	}
	return &cartService{carts: carts, courses: courses, now: now}
}

func (s *cartService) UpsertCart(ctx context.Context, id domain.Identity, items []domain.CartItemInput, expectedVersion *int) (*domain.Cart, error) {
	courses, err := domain.ValidateCartItems(items)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(courses))
	for i, c := range courses {
		ids[i] = c.CourseID
	}
	found, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cart courses: %w", err)
	}
	for _, c := range courses {
		if _, ok := found[c.CourseID]; !ok {
			return nil, domain.NotFound("Course not found: %s", c.CourseID)
		}
	}

	cart := &domain.Cart{UserID: id.UserID, Courses: courses, UpdatedAt: s.now()}
	if err := s.carts.Upsert(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) GetCart(ctx context.Context, id domain.Identity) (*domain.CartView, error) {
	cart, err := s.carts.FindByUser(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if cart == nil {
		return &domain.CartView{UserID: id.UserID, Courses: []domain.CartLine{}}, nil
	}

	ids := make([]uuid.UUID, len(cart.Courses))
	for i, c := range cart.Courses {
		ids[i] = c.CourseID
	}
	found, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cart courses: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(cart.Courses))
	for _, c := range cart.Courses {
		line := domain.CartLine{CourseID: c.CourseID, Quantity: c.Quantity}
		// Deleted courses keep their line with a null course.
		if course, ok := found[c.CourseID]; ok {
			line.Course = course.Brief()
		}
		lines = append(lines, line)
	}
	return &domain.CartView{UserID: cart.UserID, Courses: lines, Version: cart.Version}, nil
}
