package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryGateway is an in-process gateway used in development and tests. It
// keeps orders in memory and can simulate the customer paying.
type MemoryGateway struct {
	mu     sync.RWMutex
	secret string
	orders map[string]*RemoteOrder

	// FailCreate makes CreateOrder return this error when set.
	FailCreate error
}

func NewMemoryGateway(secret string) *MemoryGateway {
	return &MemoryGateway{secret: secret, orders: make(map[string]*RemoteOrder)}
}

func shortID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}

func (g *MemoryGateway) CreateOrder(ctx context.Context, req OrderRequest) (*RemoteOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailCreate != nil {
		return nil, g.FailCreate
	}

	order := &RemoteOrder{
		ID:       shortID("order_"),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   StatusCreated,
	}
	g.orders[order.ID] = order
	copied := *order
	return &copied, nil
}

func (g *MemoryGateway) FetchOrder(ctx context.Context, orderID string) (*RemoteOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	order, ok := g.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("gateway order %s not found", orderID)
	}
	copied := *order
	return &copied, nil
}

// Pay marks the order paid and returns the payment id with the signature the
// checkout widget would hand back to the client.
func (g *MemoryGateway) Pay(orderID string) (paymentID, signature string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, ok := g.orders[orderID]
	if !ok {
		return "", "", fmt.Errorf("gateway order %s not found", orderID)
	}
	if order.PaymentID == "" {
		order.PaymentID = shortID("pay_")
	}
	order.Status = StatusPaid
	return order.PaymentID, Sign(g.secret, order.ID, order.PaymentID), nil
}

// Attempt marks the order as attempted without a successful payment.
func (g *MemoryGateway) Attempt(orderID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if order, ok := g.orders[orderID]; ok && order.Status == StatusCreated {
		order.Status = StatusAttempted
	}
}

func (g *MemoryGateway) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.orders)
}
