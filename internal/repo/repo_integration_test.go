package repo_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"coursehub/internal/database"
	"coursehub/internal/domain"
	"coursehub/internal/repo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("coursehub"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewPostgres(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db))
	// Running twice must be harmless.
	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func TestPostgresRepos(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	users := repo.NewUserRepo(db)
	courses := repo.NewCourseRepo(db)
	carts := repo.NewCartRepo(db)
	orders := repo.NewOrderRepo(db)
	progress := repo.NewProgressRepo(db)
	reviews := repo.NewReviewRepo(db)
	wishlists := repo.NewWishlistRepo(db)

	alice := &domain.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", PasswordHash: "h", Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, alice))

	t.Run("users", func(t *testing.T) {
		dup := *alice
		dup.ID = uuid.New()
		dup.Username = "alice2"
		err := users.Create(ctx, &dup)
		assert.ErrorIs(t, err, domain.ErrConflict)

		found, err := users.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, alice.ID, found.ID)

		missing, err := users.FindById(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)

		names, err := users.UsernamesByIDs(ctx, []uuid.UUID{alice.ID, uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]string{alice.ID: "alice"}, names)
	})

	course := &domain.Course{
		ID: uuid.New(), Title: "Go Concurrency", Description: "d", Instructor: "i", InstructorPhone: "p",
		Date: now, Price: decimal.RequireFromString("49.99"), CreatedBy: alice.ID, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, courses.Create(ctx, course))

	t.Run("courses", func(t *testing.T) {
		found, err := courses.Search(ctx, "concurr")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.True(t, found[0].Price.Equal(course.Price))

		none, err := courses.Search(ctx, "100%")
		require.NoError(t, err)
		assert.Empty(t, none)

		byID, err := courses.FindByIDs(ctx, []uuid.UUID{course.ID})
		require.NoError(t, err)
		assert.Contains(t, byID, course.ID)
	})

	t.Run("carts", func(t *testing.T) {
		cart := &domain.Cart{UserID: alice.ID, Courses: []domain.CartCourse{{CourseID: course.ID, Quantity: 2}}, UpdatedAt: now}
		require.NoError(t, carts.Upsert(ctx, cart, nil))
		assert.Equal(t, 1, cart.Version)

		stale := 0
		err := carts.Upsert(ctx, &domain.Cart{UserID: alice.ID, UpdatedAt: now}, &stale)
		assert.ErrorIs(t, err, domain.ErrConflict)

		current := 1
		require.NoError(t, carts.Upsert(ctx, &domain.Cart{UserID: alice.ID, UpdatedAt: now}, &current))

		stored, err := carts.FindByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Version)
		assert.Empty(t, stored.Courses)
	})

	t.Run("orders", func(t *testing.T) {
		order := &domain.Order{
			ID: uuid.New(), UserID: alice.ID,
			Courses: []domain.OrderCourse{{CourseID: course.ID, Quantity: 2, Price: decimal.RequireFromString("50")}},
			Total:   decimal.RequireFromString("100"), Status: domain.OrderPending, GatewayOrderID: "order_1",
			CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour),
		}
		require.NoError(t, orders.CreateOrder(ctx, order))

		stuck, err := orders.FindStuckOrders(ctx, now, 10)
		require.NoError(t, err)
		require.Len(t, stuck, 1)
		assert.True(t, stuck[0].Total.Equal(order.Total))
		assert.Equal(t, order.Courses[0].CourseID, stuck[0].Courses[0].CourseID)

		require.NoError(t, order.Complete("pay_1", now))
		require.NoError(t, orders.UpdateOrderStatus(ctx, order, domain.OrderPending))

		stale := *order
		stale.Status = domain.OrderFailed
		stale.GatewayPaymentID = ""
		err = orders.UpdateOrderStatus(ctx, &stale, domain.OrderPending)
		assert.ErrorIs(t, err, domain.ErrConflict)

		found, err := orders.FindById(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderCompleted, found.Status)
		assert.Equal(t, "pay_1", found.GatewayPaymentID)

		mine, err := orders.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})

	t.Run("progress and reviews", func(t *testing.T) {
		p := &domain.Progress{UserID: alice.ID, CourseID: course.ID, Progress: 10, UpdatedAt: now}
		require.NoError(t, progress.Upsert(ctx, p))
		p.Progress = 60
		require.NoError(t, progress.Upsert(ctx, p))
		list, err := progress.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 60, list[0].Progress)

		rv := &domain.Review{ID: uuid.New(), UserID: alice.ID, CourseID: course.ID, Rating: 5, Comment: "great", CreatedAt: now}
		require.NoError(t, reviews.Create(ctx, rv))
		again := *rv
		again.ID = uuid.New()
		assert.ErrorIs(t, reviews.Create(ctx, &again), domain.ErrConflict)

		require.NoError(t, progress.DeleteByCourse(ctx, course.ID))
		list, err = progress.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("wishlists", func(t *testing.T) {
		w := &domain.Wishlist{UserID: alice.ID, Courses: []uuid.UUID{course.ID}, UpdatedAt: now}
		require.NoError(t, wishlists.Save(ctx, w))
		found, err := wishlists.FindByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{course.ID}, found.Courses)
	})
}
