package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coursehub/internal/domain"
	"coursehub/internal/repo"

	"github.com/google/uuid"
)

type TokenIssuer interface {
	Issue(id domain.Identity) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

type AuthResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, r domain.Registration) (*AuthResult, error)
	Login(ctx context.Context, c domain.Credentials) (*AuthResult, error)
}

type authService struct {
	users     repo.UserRepo
	tokens    TokenIssuer
	hasher    PasswordHasher
	allowRole bool
	logger    *slog.Logger
	now       func() time.Time
}

// NewAuthService builds the auth service. allowRole lets a registration pick
// its own role; otherwise every new account is a plain user.
func NewAuthService(users repo.UserRepo, tokens TokenIssuer, hasher PasswordHasher, allowRole bool, logger *slog.Logger) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		allowRole: allowRole,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, r domain.Registration) (*AuthResult, error) {
	if err := domain.ValidateRegistration(r); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(r.Email)
	username := strings.TrimSpace(r.Username)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, domain.Invalid("User already exists")
	}
	taken, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if taken != nil {
		return nil, domain.Conflict("Username already taken")
	}

	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if s.allowRole && r.Role != "" {
		role = r.Role
	}
	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return s.result(user)
}

func (s *authService) Login(ctx context.Context, c domain.Credentials) (*AuthResult, error) {
	email := domain.NormalizeEmail(c.Email)
	if email == "" || c.Password == "" {
		return nil, domain.Invalid("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.logger.Info("login failed", "reason", "unknown email")
		return nil, domain.Invalid("Invalid credentials")
	}
	ok, err := s.hasher.Compare(user.PasswordHash, c.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Info("login failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, domain.Invalid("Invalid credentials")
	}
	return s.result(user)
}

func (s *authService) result(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(domain.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
