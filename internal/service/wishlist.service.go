package service

import (
	"context"
	"fmt"
	"time"

	"coursehub/internal/domain"
	"coursehub/internal/repo"

	"github.com/google/uuid"
)

type WishlistService interface {
	GetWishlist(ctx context.Context, id domain.Identity) ([]domain.CourseBrief, error)
	AddToWishlist(ctx context.Context, id domain.Identity, courseID string) ([]domain.CourseBrief, error)
	RemoveFromWishlist(ctx context.Context, id domain.Identity, courseID string) ([]domain.CourseBrief, error)
}

type wishlistService struct {
	wishlists repo.WishlistRepo
	courses   repo.CourseRepo
	now       func() time.Time
}

func NewWishlistService(wishlists repo.WishlistRepo, courses repo.CourseRepo) WishlistService {
	return &wishlistService{wishlists: wishlists, courses: courses, now: time.Now}
}

func (s *wishlistService) load(ctx context.Context, userID uuid.UUID) (*domain.Wishlist, error) {
	w, err := s.wishlists.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find wishlist: %w", err)
	}
	if w == nil {
		w = &domain.Wishlist{UserID: userID, Courses: []uuid.UUID{}}
	}
	return w, nil
}

// expand resolves wishlist ids to course summaries, skipping deleted courses.
func (s *wishlistService) expand(ctx context.Context, w *domain.Wishlist) ([]domain.CourseBrief, error) {
	found, err := s.courses.FindByIDs(ctx, w.Courses)
	if err != nil {
		return nil, fmt.Errorf("load wishlist courses: %w", err)
	}
	out := make([]domain.CourseBrief, 0, len(w.Courses))
	for _, id := range w.Courses {
		if c, ok := found[id]; ok {
			out = append(out, *c.Brief())
		}
	}
	return out, nil
}

func (s *wishlistService) GetWishlist(ctx context.Context, id domain.Identity) ([]domain.CourseBrief, error) {
	w, err := s.load(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, w)
}

func (s *wishlistService) AddToWishlist(ctx context.Context, id domain.Identity, courseID string) ([]domain.CourseBrief, error) {
	cid, err := domain.ParseID("courseId", courseID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.FindById(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	if course == nil {
		return nil, domain.NotFound("Course not found")
	}

	w, err := s.load(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if w.Add(cid) {
		w.UpdatedAt = s.now()
		if err := s.wishlists.Save(ctx, w); err != nil {
			return nil, fmt.Errorf("save wishlist: %w", err)
		}
	}
	return s.expand(ctx, w)
}

func (s *wishlistService) RemoveFromWishlist(ctx context.Context, id domain.Identity, courseID string) ([]domain.CourseBrief, error) {
	cid, err := domain.ParseID("courseId", courseID)
	if err != nil {
		return nil, err
	}
	w, err := s.load(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if w.Remove(cid) {
		w.UpdatedAt = s.now()
		if err := s.wishlists.Save(ctx, w); err != nil {
			return nil, fmt.Errorf("save wishlist: %w", err)
		}
	}
	return s.expand(ctx, w)
}
