package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type CartRepo interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	// Upsert replaces the cart's courses wholesale and bumps its version.
	// When expectedVersion is non-nil and differs from the stored version
	// the write is rejected with a Conflict error.
	Upsert(ctx context.Context, cart *domain.Cart, expectedVersion *int) error
}

type cartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepo {
	return &cartRepo{db: db}
}

func (r *cartRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	var (
		cart    domain.Cart
		courses []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, courses, version, created_at, updated_at FROM carts WHERE user_id = $1`,
		userID,
	).Scan(&cart.UserID, &courses, &cart.Version, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(courses, &cart.Courses); err != nil {
		return nil, fmt.Errorf("decode cart courses: %w", err)
	}
	return &cart, nil
}

func (r *cartRepo) Upsert(ctx context.Context, cart *domain.Cart, expectedVersion *int) error {
	if cart.Courses == nil {
		cart.Courses = []domain.CartCourse{}
	}
	courses, err := json.Marshal(cart.Courses)
	if err != nil {
		return fmt.Errorf("encode cart courses: %w", err)
	}

	var row *sql.Row
	switch {
	case expectedVersion == nil:
		row = r.db.QueryRowContext(ctx, `
			INSERT INTO carts (user_id, courses, version, created_at, updated_at)
			VALUES ($1, $2, 1, $3, $3)
			ON CONFLICT (user_id) DO UPDATE
			SET courses = EXCLUDED.courses, version = carts.version + 1, updated_at = EXCLUDED.updated_at
			RETURNING version, created_at`,
			cart.UserID, string(courses), cart.UpdatedAt,
		)
	case *expectedVersion == 0:
		// Only a cart that was never written (or stored at version 0) matches.
		row = r.db.QueryRowContext(ctx, `
			INSERT INTO carts (user_id, courses, version, created_at, updated_at)
			VALUES ($1, $2, 1, $3, $3)
			ON CONFLICT (user_id) DO UPDATE
			SET courses = EXCLUDED.courses, version = carts.version + 1, updated_at = EXCLUDED.updated_at
			WHERE carts.version = 0
			RETURNING version, created_at`,
			cart.UserID, string(courses), cart.UpdatedAt,
		)
	default:
		row = r.db.QueryRowContext(ctx, `
			UPDATE carts
			SET courses = $2, version = version + 1, updated_at = $3
			WHERE user_id = $1 AND version = $4
			RETURNING version, created_at`,
			cart.UserID, string(courses), cart.UpdatedAt, *expectedVersion,
		)
	}

	err = row.Scan(&cart.Version, &cart.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Conflict("Cart was modified concurrently, reload and retry")
	}
	return err
}
