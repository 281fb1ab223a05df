package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"coursehub/internal/domain"
	"coursehub/internal/repo/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func userIdentity() domain.Identity {
	return domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
}

func adminIdentity() domain.Identity {
	return domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}
}

func seedCourse(t *testing.T, store *memory.Store, title, price string, createdBy uuid.UUID) *domain.Course {
	t.Helper()
	c := &domain.Course{
		ID:              uuid.New(),
		Title:           title,
		Description:     "about " + title,
		Instructor:      "Ada",
		InstructorPhone: "555-0100",
		Date:            testNow,
		Price:           decimal.RequireFromString(price),
		CreatedBy:       createdBy,
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
	require.NoError(t, store.Courses.Create(context.Background(), c))
	return c
}

func seedUser(t *testing.T, store *memory.Store, id domain.Identity, username string) {
	t.Helper()
	require.NoError(t, store.Users.Create(context.Background(), &domain.User{
		ID:        id.UserID,
		Username:  username,
		Email:     username + "@example.com",
		Role:      id.Role,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}))
}

type recordingPublisher struct {
	mu     sync.Mutex
	orders []domain.OrderView
}

func (p *recordingPublisher) PublishOrder(o domain.OrderView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, o)
}

type recordingFiles struct {
	mu      sync.Mutex
	removed []string
}

func (f *recordingFiles) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, name)
	return nil
}
