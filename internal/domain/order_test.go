package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder() *Order {
	courses := []OrderCourse{
		{CourseID: uuid.New(), Quantity: 2, Price: decimal.NewFromInt(50)},
		{CourseID: uuid.New(), Quantity: 1, Price: decimal.NewFromInt(30)},
	}
	return &Order{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Courses: courses,
		Total:   SumCourses(courses),
		Status:  OrderPending,
	}
}

func TestOrder_Complete(t *testing.T) {
	o := pendingOrder()
	now := time.Now()

	require.NoError(t, o.Complete("pay_1", now))
	assert.Equal(t, OrderCompleted, o.Status)
	assert.Equal(t, "pay_1", o.GatewayPaymentID)
	assert.Equal(t, now, o.UpdatedAt)

	// completing again rewrites the same state
	require.NoError(t, o.Complete("pay_1", now))
	assert.Equal(t, OrderCompleted, o.Status)
}

func TestOrder_FailOnlyFromPending(t *testing.T) {
	o := pendingOrder()
	require.NoError(t, o.Fail(time.Now()))
	assert.Equal(t, OrderFailed, o.Status)

	err := o.Complete("pay_1", time.Now())
	assert.True(t, errors.Is(err, ErrConflict))

	err = o.Fail(time.Now())
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestValidateOrder(t *testing.T) {
	require.NoError(t, ValidateOrder(pendingOrder()))

	o := pendingOrder()
	o.Total = decimal.NewFromInt(1)
	assert.ErrorContains(t, ValidateOrder(o), "does not match")

	o = pendingOrder()
	o.Status = "Shipped"
	assert.ErrorContains(t, ValidateOrder(o), "Invalid order status")

	o = pendingOrder()
	o.UserID = uuid.Nil
	assert.ErrorContains(t, ValidateOrder(o), "userId is required")
}
