package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	StoreDriver string
	DatabaseURL string

	JWTSecret           string
	TokenTTL            time.Duration
	AllowRoleOnRegister bool

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	Currency          string
	GatewayTimeout    time.Duration

	UploadsDir  string
	CORSOrigins []string
	// HideInternalErrors replaces 500 messages with a generic one.
	HideInternalErrors bool

	ReconcileInterval    time.Duration
	ReconcileStaleAfter  time.Duration
	ReconcileExpireAfter time.Duration
}

// Load reads the environment (and a .env file when present).
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getenv("PORT", "8080"),
		Env:               getenv("ENV", "development"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		StoreDriver:       strings.ToLower(getenv("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:       databaseURL(),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayBaseURL:   os.Getenv("RAZORPAY_BASE_URL"),
		Currency:          getenv("PAYMENT_CURRENCY", "INR"),
		UploadsDir:        getenv("UPLOADS_DIR", "uploads"),
		CORSOrigins:       splitList(getenv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.TokenTTL, err = duration("TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.GatewayTimeout, err = duration("GATEWAY_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ReconcileInterval, err = duration("RECONCILE_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.ReconcileStaleAfter, err = duration("RECONCILE_STALE_AFTER", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ReconcileExpireAfter, err = duration("RECONCILE_EXPIRE_AFTER", 24*time.Hour); err != nil {
		return nil, err
	}
	if v := os.Getenv("ALLOW_ROLE_ON_REGISTER"); v != "" {
		if cfg.AllowRoleOnRegister, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("ALLOW_ROLE_ON_REGISTER: %w", err)
		}
	}
	if v := os.Getenv("HIDE_INTERNAL_ERRORS"); v != "" {
		if cfg.HideInternalErrors, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("HIDE_INTERNAL_ERRORS: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesRazorpay reports whether real gateway credentials are configured.
func (c *Config) UsesRazorpay() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.StoreDriver)
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWTSecret = "dev-secret"
	}
	if c.RazorpayKeySecret == "" {
		if c.IsProduction() {
			return errors.New("RAZORPAY_KEY_SECRET is required in production")
		}
		c.RazorpayKeySecret = "dev-gateway-secret"
	}
	if c.StoreDriver == DriverPostgres && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL or BLUEPRINT_DB_* must be set for the postgres store")
	}
	return nil
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("BLUEPRINT_DB_HOST")
	if host == "" {
		return ""
	}
	url := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("BLUEPRINT_DB_USERNAME"),
		os.Getenv("BLUEPRINT_DB_PASSWORD"),
		host,
		getenv("BLUEPRINT_DB_PORT", "5432"),
		os.Getenv("BLUEPRINT_DB_DATABASE"),
	)
	if schema := os.Getenv("BLUEPRINT_DB_SCHEMA"); schema != "" {
		url += "&search_path=" + schema
	}
	return url
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
