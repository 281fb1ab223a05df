package handler

import (
	"net/http"

	"coursehub/internal/domain"
	"coursehub/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedServer interface {
	ServeWs(w http.ResponseWriter, r *http.Request)
}

type PaymentHandler struct {
	orders service.OrderService
	feed   FeedServer
}

func NewPaymentHandler(orders service.OrderService, feed FeedServer) *PaymentHandler {
	return &PaymentHandler{orders: orders, feed: feed}
}

// POST /payment/initiate-payment
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var items []domain.CheckoutItem
	if err := c.ShouldBindJSON(&items); err != nil {
		badRequest(c, "Cart must be a non-empty array")
		return
	}
	res, err := h.orders.InitiateCheckout(c.Request.Context(), identity(c), items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Order created, proceed to payment",
		"orderId":   res.GatewayOrderID,
		"amount":    res.Amount,
		"currency":  res.Currency,
		"dbOrderId": res.OrderID,
	})
}

// POST /payment/verify-payment
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req domain.PaymentConfirmation
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payment verification payload")
		return
	}
	order, err := h.orders.VerifyPayment(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment successful", "order": order})
}

// GET /payment/order-status
func (h *PaymentHandler) OrderStatus(c *gin.Context) {
	orders, err := h.orders.ListOrdersForUser(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /payment/all-orders
func (h *PaymentHandler) AllOrders(c *gin.Context) {
	orders, err := h.orders.ListAllOrders(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /payment/ws/orders
func (h *PaymentHandler) OrderFeed(c *gin.Context) {
	h.feed.ServeWs(c.Writer, c.Request)
}
