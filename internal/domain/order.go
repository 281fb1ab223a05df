package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Totals and prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderCompleted OrderStatus = "Completed"
	OrderFailed    OrderStatus = "Failed"
)

// OrderCourse is one line of the cart snapshot taken at checkout.
type OrderCourse struct {
	CourseID uuid.UUID       `json:"courseId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Order struct {
	ID               uuid.UUID       `json:"_id"`
	UserID           uuid.UUID       `json:"userId"`
	Courses          []OrderCourse   `json:"courses"`
	Total            decimal.Decimal `json:"total"`
	Status           OrderStatus     `json:"status"`
	GatewayOrderID   string          `json:"razorpayOrderId,omitempty"`
	GatewayPaymentID string          `json:"razorpayPaymentId,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Complete moves a Pending order to Completed. Completing an already
// completed order rewrites the same state.
func (o *Order) Complete(paymentID string, now time.Time) error {
	if o.Status == OrderFailed {
		return Conflict("Order %s has already failed", o.ID)
	}
	o.Status = OrderCompleted
	o.GatewayPaymentID = paymentID
	o.UpdatedAt = now
	return nil
}

// Fail moves a Pending order to Failed.
func (o *Order) Fail(now time.Time) error {
	if o.Status != OrderPending {
		return Conflict("Order %s is not pending", o.ID)
	}
	o.Status = OrderFailed
	o.UpdatedAt = now
	return nil
}

// SumCourses returns Σ price×quantity over the snapshot.
func SumCourses(courses []OrderCourse) decimal.Decimal {
	total := decimal.Zero
	for _, c := range courses {
		total = total.Add(c.Price.Mul(decimal.NewFromInt(int64(c.Quantity))))
	}
	return total
}

// ValidateOrder checks the stored invariants of an order record.
func ValidateOrder(o *Order) error {
	if o.UserID == uuid.Nil {
		return Invalid("userId is required")
	}
	if len(o.Courses) == 0 {
		return Invalid("Order must contain at least one course")
	}
	for _, c := range o.Courses {
		if c.Quantity < 1 {
			return Invalid("Invalid quantity for course %s: %d", c.CourseID, c.Quantity)
		}
		if !c.Price.IsPositive() {
			return Invalid("Invalid price for course %s: %s", c.CourseID, c.Price)
		}
	}
	if !o.Total.Equal(SumCourses(o.Courses)) {
		return Invalid("Order total %s does not match its courses", o.Total)
	}
	switch o.Status {
	case OrderPending, OrderCompleted, OrderFailed:
	default:
		return Invalid("Invalid order status: %s", o.Status)
	}
	return nil
}

// OrderLine is an order course joined with the course title.
type OrderLine struct {
	CourseID uuid.UUID       `json:"courseId"`
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderView is an order joined with course titles and, where requested, the
// purchaser's username.
type OrderView struct {
	ID               uuid.UUID       `json:"_id"`
	UserID           uuid.UUID       `json:"userId"`
	Username         string          `json:"username,omitempty"`
	Courses          []OrderLine     `json:"courses"`
	Total            decimal.Decimal `json:"total"`
	Status           OrderStatus     `json:"status"`
	GatewayOrderID   string          `json:"razorpayOrderId,omitempty"`
	GatewayPaymentID string          `json:"razorpayPaymentId,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
