package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID `json:"_id"`
	UserID    uuid.UUID `json:"userId"`
	CourseID  uuid.UUID `json:"courseId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReviewInput struct {
	CourseID string `json:"courseId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

func ValidateReview(in ReviewInput) (uuid.UUID, error) {
	courseID, err := ParseID("courseId", in.CourseID)
	if err != nil {
		return uuid.Nil, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return uuid.Nil, Invalid("rating must be between 1 and 5, got %d", in.Rating)
	}
	if strings.TrimSpace(in.Comment) == "" {
		return uuid.Nil, Invalid("comment is required")
	}
	return courseID, nil
}

// ReviewView is a review joined with its author's username.
type ReviewView struct {
	Review
	Username string `json:"username"`
}
