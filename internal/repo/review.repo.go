package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type ReviewRepo interface {
	// Create fails with a Conflict error when the user already reviewed
	// the course.
	Create(ctx context.Context, review *domain.Review) error
	FindById(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*domain.Review, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) ReviewRepo {
	return &reviewRepo{db: db}
}

const reviewColumns = `id, user_id, course_id, rating, comment, created_at`

func scanReview(row interface{ Scan(...any) error }) (*domain.Review, error) {
	var rv domain.Review
	if err := row.Scan(&rv.ID, &rv.UserID, &rv.CourseID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (`+reviewColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		rv.ID, rv.UserID, rv.CourseID, rv.Rating, rv.Comment, rv.CreatedAt,
	)
	if _, dup := uniqueConstraint(err); dup {
		return domain.Conflict("You have already reviewed this course")
	}
	return err
}

func (r *reviewRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rv, err
}

func (r *reviewRepo) FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rv, err
}

func (r *reviewRepo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE course_id = $1 ORDER BY created_at DESC`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}

func (r *reviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundOnZeroRows(res, "Review not found")
}
