package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub/internal/config"
	"coursehub/internal/database"
	"coursehub/internal/handler"
	"coursehub/internal/infrastructure/payment"
	"coursehub/internal/infrastructure/security"
	"coursehub/internal/notify"
	"coursehub/internal/repo"
	"coursehub/internal/repo/memory"
	"coursehub/internal/service"
	"coursehub/internal/storage"
	"coursehub/internal/worker"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type stores struct {
	users     repo.UserRepo
	courses   repo.CourseRepo
	carts     repo.CartRepo
	orders    repo.OrderRepo
	progress  repo.ProgressRepo
	reviews   repo.ReviewRepo
	wishlists repo.WishlistRepo
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		st     stores
		health handler.HealthChecker
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		dbService := database.New(db, logger)
		defer dbService.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		st = stores{
			users:     repo.NewUserRepo(db),
			courses:   repo.NewCourseRepo(db),
			carts:     repo.NewCartRepo(db),
			orders:    repo.NewOrderRepo(db),
			progress:  repo.NewProgressRepo(db),
			reviews:   repo.NewReviewRepo(db),
			wishlists: repo.NewWishlistRepo(db),
		}
		health = dbService
		logger.Info("using postgres store")
	default:
		m := memory.NewStore()
		st = stores{
			users:     m.Users,
			courses:   m.Courses,
			carts:     m.Carts,
			orders:    m.Orders,
			progress:  m.Progress,
			reviews:   m.Reviews,
			wishlists: m.Wishlists,
		}
		logger.Warn("using in-memory store, data is lost on restart")
	}

	var gateway payment.PaymentGateway
	if cfg.UsesRazorpay() {
		gateway = payment.NewRazorpayGateway(payment.RazorpayConfig{
			KeyID:     cfg.RazorpayKeyID,
			KeySecret: cfg.RazorpayKeySecret,
			BaseURL:   cfg.RazorpayBaseURL,
			Timeout:   cfg.GatewayTimeout,
		})
	} else {
		gateway = payment.NewMemoryGateway(cfg.RazorpayKeySecret)
		logger.Warn("RAZORPAY_KEY_ID not set, using in-memory payment gateway")
	}

	uploads, err := storage.NewUploads(cfg.UploadsDir)
	if err != nil {
		return err
	}

	hub := notify.NewHub(logger, cfg.CORSOrigins)
	defer hub.Close()

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	deps := handler.Deps{
		Auth: service.NewAuthService(st.users, tokens, security.NewPasswordHasher(bcrypt.DefaultCost), cfg.AllowRoleOnRegister, logger),
		Courses: service.NewCourseService(service.CourseServiceConfig{
			Courses:  st.courses,
			Progress: st.progress,
			Files:    uploads,
			Logger:   logger,
		}),
		Users: service.NewUserService(service.UserServiceConfig{
			Users:    st.users,
			Courses:  st.courses,
			Progress: st.progress,
			Files:    uploads,
			Logger:   logger,
		}),
		Carts:     service.NewCartService(st.carts, st.courses, time.Now),
		Wishlists: service.NewWishlistService(st.wishlists, st.courses),
		Orders: service.NewOrderService(service.OrderServiceConfig{
			Orders:        st.orders,
			Carts:         st.carts,
			Courses:       st.courses,
			Users:         st.users,
			Gateway:       gateway,
			GatewaySecret: cfg.RazorpayKeySecret,
			Currency:      cfg.Currency,
			Publisher:     hub,
			Logger:        logger,
		}),
		Reviews:     service.NewReviewService(st.reviews, st.courses, st.users),
		Tokens:      tokens,
		Uploads:     uploads,
		Feed:        hub,
		Health:      health,
		UploadsDir:  uploads.Dir(),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,

		HideInternalErrors: cfg.HideInternalErrors,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	reconciler := worker.NewReconciliationWorker(st.orders, gateway, hub, worker.ReconciliationConfig{
		Interval:    cfg.ReconcileInterval,
		StaleAfter:  cfg.ReconcileStaleAfter,
		ExpireAfter: cfg.ReconcileExpireAfter,
	}, logger)
	go reconciler.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
