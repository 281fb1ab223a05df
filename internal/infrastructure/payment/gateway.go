package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Remote order states as reported by the gateway.
const (
	StatusCreated   = "created"
	StatusAttempted = "attempted"
	StatusPaid      = "paid"
)

type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// RemoteOrder is the gateway-side record created before the user pays.
// PaymentID is only filled by FetchOrder once the order is paid.
type RemoteOrder struct {
	ID        string
	Amount    int64
	Currency  string
	Receipt   string
	Status    string
	PaymentID string
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*RemoteOrder, error)
	FetchOrder(ctx context.Context, orderID string) (*RemoteOrder, error)
}

// Sign computes the hex HMAC-SHA256 of "orderID|paymentID".
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares the supplied signature byte for byte against the
// recomputed one.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
