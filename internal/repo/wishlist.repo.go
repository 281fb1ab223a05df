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

type WishlistRepo interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Wishlist, error)
	Save(ctx context.Context, wishlist *domain.Wishlist) error
}

type wishlistRepo struct {
	db *sql.DB
}

func NewWishlistRepo(db *sql.DB) WishlistRepo {
	return &wishlistRepo{db: db}
}

func (r *wishlistRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Wishlist, error) {
	var (
		w       domain.Wishlist
		courses []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, courses, updated_at FROM wishlists WHERE user_id = $1`,
		userID,
	).Scan(&w.UserID, &courses, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(courses, &w.Courses); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}
	return &w, nil
}

func (r *wishlistRepo) Save(ctx context.Context, w *domain.Wishlist) error {
	if w.Courses == nil {
		w.Courses = []uuid.UUID{}
	}
	courses, err := json.Marshal(w.Courses)
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO wishlists (user_id, courses, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET courses = EXCLUDED.courses, updated_at = EXCLUDED.updated_at`,
		w.UserID, string(courses), w.UpdatedAt,
	)
	return err
}
