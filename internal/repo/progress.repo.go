package repo

import (
	"context"
	"database/sql"
	"fmt"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type ProgressRepo interface {
	// Upsert keeps created_at of an existing row and overwrites the rest.
	Upsert(ctx context.Context, p *domain.Progress) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Progress, error)
	DeleteByCourse(ctx context.Context, courseID uuid.UUID) error
}

type progressRepo struct {
	db *sql.DB
}

func NewProgressRepo(db *sql.DB) ProgressRepo {
	return &progressRepo{db: db}
}

func (r *progressRepo) Upsert(ctx context.Context, p *domain.Progress) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO progress (user_id, course_id, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id, course_id) DO UPDATE
		SET progress = EXCLUDED.progress, updated_at = EXCLUDED.updated_at
		RETURNING created_at`,
		p.UserID, p.CourseID, p.Progress, p.UpdatedAt,
	).Scan(&p.CreatedAt)
}

func (r *progressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Progress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, course_id, progress, created_at, updated_at FROM progress WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	list := []domain.Progress{}
	for rows.Next() {
		var p domain.Progress
		if err := rows.Scan(&p.UserID, &p.CourseID, &p.Progress, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *progressRepo) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM progress WHERE course_id = $1`, courseID)
	return err
}
