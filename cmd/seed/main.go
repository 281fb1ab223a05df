// Command seed loads a starter admin, user and course catalogue into the
// Postgres store. Re-running it skips records that already exist.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"coursehub/internal/config"
	"coursehub/internal/database"
	"coursehub/internal/domain"
	"coursehub/internal/infrastructure/security"
	"coursehub/internal/repo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	username, email, password string
	role                      domain.Role
	github, linkedin          string
}

type seedCourse struct {
	title, description, instructor, phone string
	price                                 string
	date                                  string
}

var users = []seedUser{
	{"admin1", "admin1@example.com", "admin123", domain.RoleAdmin, "https://github.com/admin1", "https://linkedin.com/in/admin1"},
	{"user1", "user1@example.com", "user123", domain.RoleUser, "https://github.com/user1", "https://linkedin.com/in/user1"},
}

var courses = []seedCourse{
	{"AI & Machine Learning", "Learn to build intelligent systems.", "Dr. John Doe", "+91-9000000001", "99.99", "2025-04-01"},
	{"Web3 Development", "Master blockchain and DApps.", "Jane Smith", "+91-9000000002", "149.99", "2025-04-15"},
	{"Cloud Native Go", "Services, containers and observability with Go.", "Rob Pike", "+91-9000000003", "79.50", "2025-05-01"},
	{"Data Structures", "Interview-ready algorithms and data structures.", "Ada Lovelace", "+91-9000000004", "49.00", "2025-05-20"},
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if err := run(logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed complete")
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.StoreDriver != config.DriverPostgres {
		return fmt.Errorf("seeding requires the postgres store, got %q", cfg.StoreDriver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	userRepo := repo.NewUserRepo(db)
	courseRepo := repo.NewCourseRepo(db)
	hasher := security.NewPasswordHasher(bcrypt.DefaultCost)
	now := time.Now().UTC()

	var adminID uuid.UUID
	for _, u := range users {
		existing, err := userRepo.FindByEmail(ctx, u.email)
		if err != nil {
			return fmt.Errorf("find user %s: %w", u.email, err)
		}
		if existing != nil {
			logger.Info("user exists, skipping", "email", u.email)
			if existing.Role == domain.RoleAdmin && adminID == uuid.Nil {
				adminID = existing.ID
			}
			continue
		}

		hash, err := hasher.Hash(u.password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user := &domain.User{
			ID:           uuid.New(),
			Username:     u.username,
			Email:        u.email,
			PasswordHash: hash,
			Role:         u.role,
			GitHub:       u.github,
			LinkedIn:     u.linkedin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user %s: %w", u.email, err)
		}
		if u.role == domain.RoleAdmin && adminID == uuid.Nil {
			adminID = user.ID
		}
		logger.Info("user created", "email", u.email, "role", u.role)
	}

	existing, err := courseRepo.ListByCreator(ctx, adminID)
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}
	titles := make(map[string]bool, len(existing))
	for _, c := range existing {
		titles[c.Title] = true
	}

	for _, c := range courses {
		if titles[c.title] {
			logger.Info("course exists, skipping", "title", c.title)
			continue
		}
		date, err := domain.ParseCourseDate(c.date)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		course := &domain.Course{
			ID:              uuid.New(),
			Title:           c.title,
			Description:     c.description,
			Instructor:      c.instructor,
			InstructorPhone: c.phone,
			Date:            date,
			Price:           decimal.RequireFromString(c.price),
			CreatedBy:       adminID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := courseRepo.Create(ctx, course); err != nil {
			return fmt.Errorf("create course %q: %w", c.title, err)
		}
		logger.Info("course created", "title", c.title, "price", c.price)
	}

	return nil
}
