package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health(ctx context.Context) map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error
}

type service struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgres opens a pool through the pgx stdlib driver and pings it.
func NewPostgres(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func New(db *sql.DB, logger *slog.Logger) Service {
	return &service{db: db, logger: logger}
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("ping: %v", err)
		s.logger.Error("database health check failed", "error", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "ok"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	switch {
	case dbStats.WaitCount > 1000:
		stats["message"] = "pool saturated, requests are waiting for connections"
	case dbStats.OpenConnections > 20:
		stats["message"] = "heavy load"
	}

	return stats
}

func (s *service) Close() error {
	s.logger.Info("disconnected from database")
	return s.db.Close()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(255) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role VARCHAR(16) NOT NULL DEFAULT 'user',
		github TEXT NOT NULL DEFAULT '',
		linkedin TEXT NOT NULL DEFAULT '',
		profile TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS courses (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		instructor TEXT NOT NULL,
		instructor_phone TEXT NOT NULL,
		date TIMESTAMP WITH TIME ZONE NOT NULL,
		price NUMERIC(12, 2) NOT NULL CHECK (price > 0),
		image TEXT NOT NULL DEFAULT '',
		created_by UUID NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_created_by ON courses(created_by)`,

	`CREATE TABLE IF NOT EXISTS carts (
		user_id UUID PRIMARY KEY,
		courses JSONB NOT NULL DEFAULT '[]',
		version INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		courses JSONB NOT NULL,
		total NUMERIC(14, 2) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'Pending',
		gateway_order_id TEXT NOT NULL DEFAULT '',
		gateway_payment_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status_updated ON orders(status, updated_at)`,

	`CREATE TABLE IF NOT EXISTS progress (
		user_id UUID NOT NULL,
		course_id UUID NOT NULL,
		progress INTEGER NOT NULL CHECK (progress BETWEEN 0 AND 100),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
		PRIMARY KEY (user_id, course_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_course_id ON progress(course_id)`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		course_id UUID NOT NULL,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		UNIQUE (user_id, course_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_course_id ON reviews(course_id)`,

	`CREATE TABLE IF NOT EXISTS wishlists (
		user_id UUID PRIMARY KEY,
		courses JSONB NOT NULL DEFAULT '[]',
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,
}

// Migrate creates every table the repositories need. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
