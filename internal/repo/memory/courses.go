package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type CourseRepo struct {
	mu      sync.RWMutex
	courses map[uuid.UUID]domain.Course
}

func NewCourseRepo() *CourseRepo {
	return &CourseRepo{courses: make(map[uuid.UUID]domain.Course)}
}

func (r *CourseRepo) Create(ctx context.Context, c *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses[c.ID] = *c
	return nil
}

func (r *CourseRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CourseRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	found := make(map[uuid.UUID]domain.Course, len(ids))
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			found[id] = c
		}
	}
	return found, nil
}

func (r *CourseRepo) Update(ctx context.Context, c *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[c.ID]; !ok {
		return domain.NotFound("Course not found")
	}
	r.courses[c.ID] = *c
	return nil
}

func (r *CourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return domain.NotFound("Course not found")
	}
	delete(r.courses, id)
	return nil
}

// sorted returns the courses matching keep, oldest first.
func (r *CourseRepo) sorted(keep func(domain.Course) bool) []domain.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Course{}
	for _, c := range r.courses {
		if keep(c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b domain.Course) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

func (r *CourseRepo) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.Course, error) {
	return r.sorted(func(c domain.Course) bool { return c.CreatedBy == createdBy }), nil
}

func (r *CourseRepo) Search(ctx context.Context, term string) ([]domain.Course, error) {
	term = strings.ToLower(term)
	return r.sorted(func(c domain.Course) bool {
		return strings.Contains(strings.ToLower(c.Title), term)
	}), nil
}

func (r *CourseRepo) List(ctx context.Context, limit int) ([]domain.Course, error) {
	all := r.sorted(func(domain.Course) bool { return true })
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
