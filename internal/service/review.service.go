package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursehub/internal/domain"
	"coursehub/internal/repo"

	"github.com/google/uuid"
)

type ReviewService interface {
	CreateReview(ctx context.Context, id domain.Identity, in domain.ReviewInput) (*domain.Review, error)
	ListCourseReviews(ctx context.Context, courseID string) ([]domain.ReviewView, error)
	DeleteReview(ctx context.Context, id domain.Identity, reviewID string) error
}

type reviewService struct {
	reviews repo.ReviewRepo
	courses repo.CourseRepo
	users   repo.UserRepo
	now     func() time.Time
}

func NewReviewService(reviews repo.ReviewRepo, courses repo.CourseRepo, users repo.UserRepo) ReviewService {
	return &reviewService{reviews: reviews, courses: courses, users: users, now: time.Now}
}

func (s *reviewService) CreateReview(ctx context.Context, id domain.Identity, in domain.ReviewInput) (*domain.Review, error) {
	courseID, err := domain.ValidateReview(in)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.FindById(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	if course == nil {
		return nil, domain.NotFound("Course not found")
	}

	existing, err := s.reviews.FindByUserAndCourse(ctx, id.UserID, courseID)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if existing != nil {
		return nil, domain.Invalid("You have already reviewed this course")
	}

	review := &domain.Review{
		ID:        uuid.New(),
		UserID:    id.UserID,
		CourseID:  courseID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: s.now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		// Lost a race against a concurrent review by the same user.
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Invalid("You have already reviewed this course")
		}
		return nil, fmt.Errorf("save review: %w", err)
	}
	return review, nil
}

func (s *reviewService) ListCourseReviews(ctx context.Context, courseID string) ([]domain.ReviewView, error) {
	cid, err := domain.ParseID("courseId", courseID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByCourse(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	userIDs := make([]uuid.UUID, len(reviews))
	for i, r := range reviews {
		userIDs[i] = r.UserID
	}
	names, err := s.users.UsernamesByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load reviewers: %w", err)
	}

	views := make([]domain.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, domain.ReviewView{Review: r, Username: names[r.UserID]})
	}
	return views, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, id domain.Identity, reviewID string) error {
	rid, err := domain.ParseID("reviewId", reviewID)
	if err != nil {
		return err
	}
	review, err := s.reviews.FindById(ctx, rid)
	if err != nil {
		return fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return domain.NotFound("Review not found")
	}
	if review.UserID != id.UserID && !id.IsAdmin() {
		return domain.Forbidden("Unauthorized")
	}
	return s.reviews.Delete(ctx, rid)
}
