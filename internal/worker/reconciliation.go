package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coursehub/internal/domain"
	"coursehub/internal/infrastructure/payment"
	"coursehub/internal/repo"
)

const defaultBatchSize = 100

type ReconciliationConfig struct {
	// Interval between sweeps; zero disables the worker.
	Interval time.Duration
	// StaleAfter is how long an order must sit in Pending before it is checked.
	StaleAfter time.Duration
	// ExpireAfter is the age at which an unpaid order is marked Failed.
	ExpireAfter time.Duration
	BatchSize   int
}

// ReconciliationWorker settles Pending orders whose verification callback
// never arrived, using the gateway as the source of truth.
type ReconciliationWorker struct {
	orderRepo repo.OrderRepo
	gateway   payment.PaymentGateway
	publisher OrderPublisher
	cfg       ReconciliationConfig
	logger    *slog.Logger
	now       func() time.Time
}

// OrderPublisher receives orders the worker completes.
type OrderPublisher interface {
	PublishOrder(order domain.OrderView)
}

func NewReconciliationWorker(
	orderRepo repo.OrderRepo,
	gateway payment.PaymentGateway,
	publisher OrderPublisher,
	cfg ReconciliationConfig,
	logger *slog.Logger,
) *ReconciliationWorker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconciliationWorker{
		orderRepo: orderRepo,
		gateway:   gateway,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With("component", "reconciliation"),
		now:       time.Now,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (rw *ReconciliationWorker) Run(ctx context.Context) {
	if rw.cfg.Interval <= 0 {
		rw.logger.Info("reconciliation worker disabled")
		return
	}
	ticker := time.NewTicker(rw.cfg.Interval)
	defer ticker.Stop()

	rw.logger.Info("reconciliation worker started", "interval", rw.cfg.Interval)

	for {
		select {
		case <-ctx.Done():
			rw.logger.Info("reconciliation worker stopped")
			return
		case <-ticker.C:
			if _, err := rw.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
				rw.logger.Error("reconciliation sweep failed", "error", err)
			}
		}
	}
}

// SweepResult counts what one sweep changed.
type SweepResult struct {
	Checked   int
	Completed int
	Failed    int
}

// Sweep checks one batch of stuck orders. Per-order errors are logged and
// the order is retried on the next sweep.
func (rw *ReconciliationWorker) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	now := rw.now()

	stuckOrders, err := rw.orderRepo.FindStuckOrders(ctx, now.Add(-rw.cfg.StaleAfter), rw.cfg.BatchSize)
	if err != nil {
		return res, err
	}
	if len(stuckOrders) == 0 {
		return res, nil
	}

	rw.logger.Info("found stuck orders", "count", len(stuckOrders))

	for i := range stuckOrders {
		order := &stuckOrders[i]
		res.Checked++

		remote, err := rw.gateway.FetchOrder(ctx, order.GatewayOrderID)
		if err != nil {
			rw.logger.Warn("failed to fetch gateway order",
				"order_id", order.ID,
				"gateway_order_id", order.GatewayOrderID,
				"error", err,
			)
			continue
		}

		from := order.Status
		switch {
		case remote.Status == payment.StatusPaid:
			if err := order.Complete(remote.PaymentID, now); err != nil {
				rw.logger.Warn("cannot complete order", "order_id", order.ID, "error", err)
				continue
			}
		case rw.cfg.ExpireAfter > 0 && now.Sub(order.CreatedAt) >= rw.cfg.ExpireAfter:
			if err := order.Fail(now); err != nil {
				rw.logger.Warn("cannot fail order", "order_id", order.ID, "error", err)
				continue
			}
		default:
			continue
		}

		if err := rw.orderRepo.UpdateOrderStatus(ctx, order, from); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				rw.logger.Info("order settled concurrently, skipping", "order_id", order.ID, "error", err)
				continue
			}
			rw.logger.Error("failed to update order", "order_id", order.ID, "error", err)
			continue
		}

		if order.Status == domain.OrderCompleted {
			res.Completed++
			rw.logger.Info("order paid at gateway, marked completed",
				"order_id", order.ID,
				"gateway_payment_id", order.GatewayPaymentID,
			)
			if rw.publisher != nil {
				rw.publisher.PublishOrder(summary(order))
			}
		} else {
			res.Failed++
			rw.logger.Info("unpaid order expired, marked failed", "order_id", order.ID)
		}
	}
	return res, nil
}

// summary renders an order without joined titles for the order feed.
func summary(o *domain.Order) domain.OrderView {
	lines := make([]domain.OrderLine, 0, len(o.Courses))
	for _, c := range o.Courses {
		lines = append(lines, domain.OrderLine{CourseID: c.CourseID, Quantity: c.Quantity, Price: c.Price})
	}
	return domain.OrderView{
		ID:               o.ID,
		UserID:           o.UserID,
		Courses:          lines,
		Total:            o.Total,
		Status:           o.Status,
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: o.GatewayPaymentID,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}
