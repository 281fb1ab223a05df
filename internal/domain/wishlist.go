package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Wishlist struct {
	UserID    uuid.UUID   `json:"userId"`
	Courses   []uuid.UUID `json:"courses"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Add appends courseID unless already present and reports whether it changed.
func (w *Wishlist) Add(courseID uuid.UUID) bool {
	if slices.Contains(w.Courses, courseID) {
		return false
	}
	w.Courses = append(w.Courses, courseID)
	return true
}

func (w *Wishlist) Remove(courseID uuid.UUID) bool {
	i := slices.Index(w.Courses, courseID)
	if i < 0 {
		return false
	}
	w.Courses = slices.Delete(w.Courses, i, i+1)
	return true
}
