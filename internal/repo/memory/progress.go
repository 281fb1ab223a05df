package memory

import (
	"context"
	"slices"
	"sync"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type progressKey struct {
	user, course uuid.UUID
}

type ProgressRepo struct {
	mu   sync.RWMutex
	rows map[progressKey]domain.Progress
}

func NewProgressRepo() *ProgressRepo {
	return &ProgressRepo{rows: make(map[progressKey]domain.Progress)}
}

func (r *ProgressRepo) Upsert(ctx context.Context, p *domain.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := progressKey{p.UserID, p.CourseID}
	if existing, ok := r.rows[key]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = p.UpdatedAt
	}
	r.rows[key] = *p
	return nil
}

func (r *ProgressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Progress{}
	for key, p := range r.rows {
		if key.user == userID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.Progress) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r *ProgressRepo) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.rows {
		if key.course == courseID {
			delete(r.rows, key)
		}
	}
	return nil
}
