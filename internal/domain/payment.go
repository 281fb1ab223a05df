package domain

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutItem is one entry of the cart payload sent to initiate a payment.
// Quantity is a float so that fractional input can be rejected instead of
// silently truncated.
type CheckoutItem struct {
	ID       string  `json:"_id"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// ValidateCheckout checks a cart payload in order and fails on the first
// violation. It returns the order snapshot and its total.
func ValidateCheckout(items []CheckoutItem) ([]OrderCourse, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, Invalid("Cart must be a non-empty array")
	}

	courses := make([]OrderCourse, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			missing := item.ID
			if missing == "" {
				missing = "missing"
			}
			return nil, decimal.Zero, Invalid("Invalid course ID: %s", missing)
		}
		if !finite(item.Price) || item.Price <= 0 {
			return nil, decimal.Zero, Invalid("Invalid price for course %s: %v", item.ID, item.Price)
		}
		price := decimal.NewFromFloat(item.Price)
		if !price.Equal(price.Truncate(2)) {
			return nil, decimal.Zero, Invalid("Invalid price for course %s: %v", item.ID, item.Price)
		}
		if !validQuantity(item.Quantity) {
			return nil, decimal.Zero, Invalid("Invalid quantity for course %s: %v", item.ID, item.Quantity)
		}
		courses = append(courses, OrderCourse{
			CourseID: id,
			Quantity: int(item.Quantity),
			Price:    price,
		})
	}

	total := SumCourses(courses)
	subunits := total.Shift(2)
	if subunits.LessThan(decimal.NewFromInt(1)) || subunits.GreaterThan(maxTotalSubunits) {
		return nil, decimal.Zero, Invalid("Invalid total amount calculated")
	}
	return courses, total, nil
}

// MaxQuantity bounds a single line so the int conversion is exact.
const MaxQuantity = math.MaxInt32

// maxTotalSubunits is the largest total a NUMERIC(14, 2) column holds, which
// also keeps ToSubunits well inside int64.
var maxTotalSubunits = decimal.New(1, 14).Sub(decimal.NewFromInt(1))

func validQuantity(q float64) bool {
	return finite(q) && q >= 1 && q <= MaxQuantity && q == math.Trunc(q)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ToSubunits converts an amount to the smallest currency unit (paise, cents).
// Totals accepted by ValidateCheckout always fit.
func ToSubunits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// CheckoutResult is handed back to the client to complete payment.
type CheckoutResult struct {
	GatewayOrderID string    `json:"orderId"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	OrderID        uuid.UUID `json:"dbOrderId"`
}

// PaymentConfirmation is the client callback after paying on the gateway.
type PaymentConfirmation struct {
	GatewayOrderID   string `json:"razorpayOrderId"`
	GatewayPaymentID string `json:"razorpayPaymentId"`
	Signature        string `json:"razorpaySignature"`
	OrderID          string `json:"dbOrderId"`
}
