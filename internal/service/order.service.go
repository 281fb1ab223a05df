package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"coursehub/internal/domain"
	"coursehub/internal/infrastructure/payment"
	"coursehub/internal/repo"

	"github.com/google/uuid"
)

type OrderService interface {
	InitiateCheckout(ctx context.Context, id domain.Identity, items []domain.CheckoutItem) (*domain.CheckoutResult, error)
	VerifyPayment(ctx context.Context, id domain.Identity, confirm domain.PaymentConfirmation) (*domain.OrderView, error)
	ListOrdersForUser(ctx context.Context, id domain.Identity) ([]domain.OrderView, error)
	ListAllOrders(ctx context.Context, id domain.Identity) ([]domain.OrderView, error)
}

// OrderPublisher receives every order that reaches Completed.
type OrderPublisher interface {
	PublishOrder(order domain.OrderView)
}

type OrderServiceConfig struct {
	Orders  repo.OrderRepo
	Carts   repo.CartRepo
	Courses repo.CourseRepo
	Users   repo.UserRepo

	Gateway       payment.PaymentGateway
	GatewaySecret string
	Currency      string

	Publisher OrderPublisher
	Logger    *slog.Logger
	Now       func() time.Time
}

type orderService struct {
	orders  repo.OrderRepo
	carts   repo.CartRepo
	courses repo.CourseRepo
	users   repo.UserRepo

	gateway       payment.PaymentGateway
	gatewaySecret string
	currency      string

	publisher OrderPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewOrderService(cfg OrderServiceConfig) OrderService {
	s := &orderService{
		orders:        cfg.Orders,
		carts:         cfg.Carts,
		courses:       cfg.Courses,
		users:         cfg.Users,
		gateway:       cfg.Gateway,
		gatewaySecret: cfg.GatewaySecret,
		currency:      cfg.Currency,
		publisher:     cfg.Publisher,
		logger:        cfg.Logger,
		now:           cfg.Now,
	}
	if s.currency == "" {
		s.currency = "INR"
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *orderService) InitiateCheckout(ctx context.Context, id domain.Identity, items []domain.CheckoutItem) (*domain.CheckoutResult, error) {
	courses, total, err := domain.ValidateCheckout(items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	remote, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		Amount:   domain.ToSubunits(total),
		Currency: s.currency,
		Receipt:  fmt.Sprintf("receipt_%d", now.UnixMilli()),
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	// Persisted only after the gateway accepted the order.
	order := &domain.Order{
		ID:             uuid.New(),
		UserID:         id.UserID,
		Courses:        courses,
		Total:          total,
		Status:         domain.OrderPending,
		GatewayOrderID: remote.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.logger.Error("gateway order left without a local order",
			"gateway_order_id", remote.ID,
			"user_id", id.UserID,
			"error", err,
		)
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.logger.Info("checkout initiated",
		"order_id", order.ID,
		"gateway_order_id", remote.ID,
		"amount", remote.Amount,
	)
	return &domain.CheckoutResult{
		GatewayOrderID: remote.ID,
		Amount:         remote.Amount,
		Currency:       remote.Currency,
		OrderID:        order.ID,
	}, nil
}

func (s *orderService) VerifyPayment(ctx context.Context, id domain.Identity, confirm domain.PaymentConfirmation) (*domain.OrderView, error) {
	if !payment.VerifySignature(s.gatewaySecret, confirm.GatewayOrderID, confirm.GatewayPaymentID, confirm.Signature) {
		return nil, &domain.Error{Kind: domain.ErrInvalidSignature, Message: "Invalid payment signature"}
	}

	orderID, err := domain.ParseID("dbOrderId", confirm.OrderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindById(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return nil, domain.NotFound("Order not found")
	}
	if order.UserID != id.UserID && !id.IsAdmin() {
		return nil, domain.Forbidden("Order does not belong to the current user")
	}
	if order.GatewayOrderID != confirm.GatewayOrderID {
		return nil, domain.Invalid("Payment does not match order %s", order.ID)
	}

	now := s.now()
	from := order.Status
	if err := order.Complete(confirm.GatewayPaymentID, now); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateOrderStatus(ctx, order, from); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	// The purchaser's whole cart is emptied, even when an admin verifies and
	// even if it holds courses outside this order.
	if err := s.carts.Upsert(ctx, &domain.Cart{UserID: order.UserID, UpdatedAt: now}, nil); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	views, err := buildOrderViews(ctx, s.courses, s.users, []domain.Order{*order}, true)
	if err != nil {
		return nil, err
	}
	view := views[0]
	if s.publisher != nil {
		s.publisher.PublishOrder(view)
	}

	s.logger.Info("payment verified",
		"order_id", order.ID,
		"gateway_payment_id", order.GatewayPaymentID,
	)
	return &view, nil
}

func (s *orderService) ListOrdersForUser(ctx context.Context, id domain.Identity) ([]domain.OrderView, error) {
	orders, err := s.orders.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return buildOrderViews(ctx, s.courses, s.users, orders, false)
}

func (s *orderService) ListAllOrders(ctx context.Context, id domain.Identity) ([]domain.OrderView, error) {
	if !id.IsAdmin() {
		return nil, domain.Forbidden("Admin access required")
	}
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return buildOrderViews(ctx, s.courses, s.users, orders, true)
}

// buildOrderViews joins orders with course titles and, when withUsers is
// set, purchaser usernames. Lookups are batched per call.
func buildOrderViews(ctx context.Context, courses repo.CourseRepo, users repo.UserRepo, orders []domain.Order, withUsers bool) ([]domain.OrderView, error) {
	var courseIDs, userIDs []uuid.UUID
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
		for _, c := range o.Courses {
			courseIDs = append(courseIDs, c.CourseID)
		}
	}

	found, err := courses.FindByIDs(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("load order courses: %w", err)
	}
	var names map[uuid.UUID]string
	if withUsers {
		if names, err = users.UsernamesByIDs(ctx, userIDs); err != nil {
			return nil, fmt.Errorf("load order users: %w", err)
		}
	}

	views := make([]domain.OrderView, 0, len(orders))
	for _, o := range orders {
		lines := make([]domain.OrderLine, 0, len(o.Courses))
		for _, c := range o.Courses {
			lines = append(lines, domain.OrderLine{
				CourseID: c.CourseID,
				Title:    found[c.CourseID].Title,
				Quantity: c.Quantity,
				Price:    c.Price,
			})
		}
		views = append(views, domain.OrderView{
			ID:               o.ID,
			UserID:           o.UserID,
			Username:         names[o.UserID],
			Courses:          lines,
			Total:            o.Total,
			Status:           o.Status,
			GatewayOrderID:   o.GatewayOrderID,
			GatewayPaymentID: o.GatewayPaymentID,
			CreatedAt:        o.CreatedAt,
			UpdatedAt:        o.UpdatedAt,
		})
	}
	return views, nil
}
