package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartCourse struct {
	CourseID uuid.UUID `json:"courseId"`
	Quantity int       `json:"quantity"`
}

type Cart struct {
	UserID    uuid.UUID    `json:"userId"`
	Courses   []CartCourse `json:"courses"`
	Version   int          `json:"version"`
	CreatedAt time.Time    `json:"createdAt,omitempty"`
	UpdatedAt time.Time    `json:"updatedAt,omitempty"`
}

// CartItemInput is one entry of a cart update as received from the client.
type CartItemInput struct {
	CourseID string  `json:"courseId"`
	Quantity float64 `json:"quantity"`
}

// ValidateCartItems checks syntax only; course existence is checked by the
// cart service against the store.
func ValidateCartItems(items []CartItemInput) ([]CartCourse, error) {
	courses := make([]CartCourse, 0, len(items))
	for _, item := range items {
		if item.CourseID == "" {
			return nil, Invalid("courseId is required for all cart items")
		}
		id, err := uuid.Parse(item.CourseID)
		if err != nil {
			return nil, Invalid("Invalid courseId: %s", item.CourseID)
		}
		if !validQuantity(item.Quantity) {
			return nil, Invalid("Invalid quantity for courseId %s: %v", item.CourseID, item.Quantity)
		}
		courses = append(courses, CartCourse{CourseID: id, Quantity: int(item.Quantity)})
	}
	return courses, nil
}

// CartLine is a cart entry joined with course details. Course is nil when the
// referenced course has been deleted since it was added.
type CartLine struct {
	CourseID uuid.UUID    `json:"courseId"`
	Quantity int          `json:"quantity"`
	Course   *CourseBrief `json:"course"`
}

type CourseBrief struct {
	ID         uuid.UUID       `json:"_id"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image,omitempty"`
	Instructor string          `json:"instructor"`
}

type CartView struct {
	UserID  uuid.UUID  `json:"userId"`
	Courses []CartLine `json:"courses"`
	Version int        `json:"version"`
}
