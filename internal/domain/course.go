package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Course struct {
	ID              uuid.UUID       `json:"_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Instructor      string          `json:"instructor"`
	InstructorPhone string          `json:"instructorPhone"`
	Date            time.Time       `json:"date"`
	Price           decimal.Decimal `json:"price"`
	Image           string          `json:"image,omitempty"`
	CreatedBy       uuid.UUID       `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (c *Course) Brief() *CourseBrief {
	return &CourseBrief{
		ID:         c.ID,
		Title:      c.Title,
		Price:      c.Price,
		Image:      c.Image,
		Instructor: c.Instructor,
	}
}

// CourseInput carries the form fields of a course create or update. Empty
// fields on update keep the stored value.
type CourseInput struct {
	Title           string
	Description     string
	Instructor      string
	InstructorPhone string
	Date            string
	Price           string
}

const courseDateLayout = "2006-01-02"

// ParseCourseDate accepts RFC 3339 timestamps and plain dates.
func ParseCourseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(courseDateLayout, raw)
	if err != nil {
		return time.Time{}, Invalid("Invalid date: %s", raw)
	}
	return t, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !price.IsPositive() {
		return decimal.Zero, Invalid("Invalid price: %s", raw)
	}
	return price, nil
}

// NewCourse validates a create request and builds the record.
func NewCourse(in CourseInput, createdBy uuid.UUID, image string, now time.Time) (*Course, error) {
	required := []struct{ name, value string }{
		{"title", in.Title},
		{"description", in.Description},
		{"instructor", in.Instructor},
		{"instructorPhone", in.InstructorPhone},
		{"date", in.Date},
		{"price", in.Price},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, Invalid("%s is required", f.name)
		}
	}
	date, err := ParseCourseDate(in.Date)
	if err != nil {
		return nil, err
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	return &Course{
		ID:              uuid.New(),
		Title:           in.Title,
		Description:     in.Description,
		Instructor:      in.Instructor,
		InstructorPhone: in.InstructorPhone,
		Date:            date,
		Price:           price,
		Image:           image,
		CreatedBy:       createdBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Apply merges the non-empty fields of in into the course.
func (c *Course) Apply(in CourseInput, now time.Time) error {
	if in.Title != "" {
		c.Title = in.Title
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if in.Instructor != "" {
		c.Instructor = in.Instructor
	}
	if in.InstructorPhone != "" {
		c.InstructorPhone = in.InstructorPhone
	}
	if in.Date != "" {
		date, err := ParseCourseDate(in.Date)
		if err != nil {
			return err
		}
		c.Date = date
	}
	if in.Price != "" {
		price, err := parsePrice(in.Price)
		if err != nil {
			return err
		}
		c.Price = price
	}
	c.UpdatedAt = now
	return nil
}
