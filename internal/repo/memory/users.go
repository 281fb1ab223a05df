package memory

import (
	"context"
	"sync"

	"coursehub/internal/domain"

	"github.com/google/uuid"
)

type UserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.Conflict("User already exists")
		}
		if existing.Username == u.Username {
			return domain.Conflict("Username already taken")
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) find(match func(domain.User) bool) *domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email }), nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username }), nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return domain.NotFound("User not found")
	}
	for id, existing := range r.users {
		if id != u.ID && existing.Username == u.Username {
			return domain.Conflict("Username already taken")
		}
	}
	stored.Username = u.Username
	stored.GitHub = u.GitHub
	stored.LinkedIn = u.LinkedIn
	stored.ProfileImage = u.ProfileImage
	stored.Role = u.Role
	stored.UpdatedAt = u.UpdatedAt
	r.users[u.ID] = stored
	return nil
}

func (r *UserRepo) UsernamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			names[id] = u.Username
		}
	}
	return names, nil
}
