package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type OrderRepo interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	FindById(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// UpdateOrderStatus persists status, payment id and updated timestamp
	// only while the stored status is still from. A settled order reports
	// Conflict and is left untouched.
	UpdateOrderStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	// FindStuckOrders returns Pending orders last touched before the cutoff,
	// oldest first.
	FindStuckOrders(ctx context.Context, before time.Time, limit int) ([]domain.Order, error)
}

type orderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepo {
	return &orderRepo{db: db}
}

const orderColumns = `id, user_id, courses, total, status, gateway_order_id, gateway_payment_id, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var (
		order   domain.Order
		courses []byte
	)
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&courses,
		&order.Total,
		&order.Status,
		&order.GatewayOrderID,
		&order.GatewayPaymentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(courses, &order.Courses); err != nil {
		return nil, fmt.Errorf("decode order courses: %w", err)
	}
	return &order, nil
}

func (r *orderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	courses, err := json.Marshal(order.Courses)
	if err != nil {
		return fmt.Errorf("encode order courses: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.ID, order.UserID, string(courses), order.Total, order.Status,
		order.GatewayOrderID, order.GatewayPaymentID, order.CreatedAt, order.UpdatedAt,
	)
	return err
}

func (r *orderRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) UpdateOrderStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, gateway_payment_id = $2, updated_at = $3 WHERE id = $4 AND status = $5`,
		order.Status, order.GatewayPaymentID, order.UpdatedAt, order.ID, from,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var current domain.OrderStatus
	err = r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, order.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Order not found")
	}
	if err != nil {
		return err
	}
	return domain.Conflict("Order %s is already %s", order.ID, current)
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
}

func (r *orderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *orderRepo) FindStuckOrders(ctx context.Context, before time.Time, limit int) ([]domain.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status = $1 AND updated_at < $2 ORDER BY updated_at LIMIT $3`,
		domain.OrderPending, before, limit,
	)
}
