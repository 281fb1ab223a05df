package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Progress struct {
	UserID    uuid.UUID `json:"userId"`
	CourseID  uuid.UUID `json:"courseId"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ValidateProgress(p int) error {
	if p < 0 || p > 100 {
		return Invalid("progress must be between 0 and 100, got %d", p)
	}
	return nil
}

// EnrolledCourse is a progress row joined with its course.
type EnrolledCourse struct {
	ID          uuid.UUID       `json:"_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Instructor  string          `json:"instructor"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	CreatedBy   uuid.UUID       `json:"createdBy"`
	Progress    int             `json:"progress"`
}
