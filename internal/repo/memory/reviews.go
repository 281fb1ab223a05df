package memory

import (
	"context"
	"slices"
	"sync"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type ReviewRepo struct {
	mu      sync.RWMutex
	reviews map[uuid.UUID]domain.Review
}

func NewReviewRepo() *ReviewRepo {
	return &ReviewRepo{reviews: make(map[uuid.UUID]domain.Review)}
}

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.UserID == rv.UserID && existing.CourseID == rv.CourseID {
			return domain.Conflict("You have already reviewed this course")
		}
	}
	r.reviews[rv.ID] = *rv
	return nil
}

func (r *ReviewRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func (r *ReviewRepo) FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rv := range r.reviews {
		if rv.UserID == userID && rv.CourseID == courseID {
			return &rv, nil
		}
	}
	return nil, nil
}

func (r *ReviewRepo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Review{}
	for _, rv := range r.reviews {
		if rv.CourseID == courseID {
			out = append(out, rv)
		}
	}
	slices.SortFunc(out, func(a, b domain.Review) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return domain.NotFound("Review not found")
	}
	delete(r.reviews, id)
	return nil
}
