package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/omniinfra/platform/internal/app/migrate"
	httpx "github.com/omniinfra/platform/internal/http"
	"github.com/omniinfra/platform/internal/repository"
	"github.com/omniinfra/platform/internal/repository/memory"
	"github.com/omniinfra/platform/internal/repository/postgres"
	"github.com/omniinfra/platform/internal/service/analyzer"
	"github.com/omniinfra/platform/internal/service/assistant"
	"github.com/omniinfra/platform/internal/service/auth"
	"github.com/omniinfra/platform/internal/service/github"
	"github.com/omniinfra/platform/internal/service/project"
	"github.com/omniinfra/platform/internal/ws"
	"github.com/omniinfra/platform/pkg/config"
	"github.com/omniinfra/platform/pkg/logger"
)

type stores struct {
	users      repository.UserRepository
	projects   repository.ProjectRepository
	activities repository.ActivityRepository
}

func main() {
	cfg := config.LoadAPIConfig()
	log := logger.New("api", slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		st       stores
		demoUser string
		dbHealth func(context.Context) error
	)
	if cfg.DemoMode {
		store := memory.NewSeeded()
		st = stores{users: store, projects: store, activities: store}
		demoUser = memory.DemoUserID
		log.Info("demo mode enabled", "user", demoUser)
	} else {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		runner, err := migrate.New(pool, cfg.DatabaseURL, cfg.MigrationsDir, log)
		if err != nil {
			log.Error("failed to configure migrations", "error", err)
			os.Exit(1)
		}
		defer runner.Close()
		if err := runner.Ping(ctx); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		if err := runner.Ensure(ctx); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		repo := postgres.New(pool)
		st = stores{users: repo, projects: repo, activities: repo}
		dbHealth = pool.Ping
	}

	hub := ws.NewHub()
	authSvc := auth.New(st.users, log, cfg)
	projectSvc := project.New(st.projects, st.activities,
		analyzer.NewStatic(cfg.MockLatencyMin, cfg.MockLatencyMax), hub, log, cfg.EnvEncryptionKey)
	assistantSvc := assistant.New(log)
	repoLister := github.NewStatic(cfg.MockLatencyMin, cfg.MockLatencyMax)

	var limiter httpx.RateLimiter
	if addr := strings.TrimSpace(cfg.RateLimitRedisAddr); addr != "" {
		redisLimiter, err := httpx.NewRedisRateLimiter(addr, cfg.RateLimitRedisPass, cfg.RateLimitRedisDB, log)
		if err != nil {
			log.Warn("redis rate limiter unavailable", "error", err)
		} else {
			limiter = redisLimiter
		}
	}

	router := httpx.NewRouter(log, authSvc, projectSvc, assistantSvc, repoLister, hub, httpx.RouterOptions{
		Limiter:   limiter,
		DemoUser:  demoUser,
		FeedLimit: cfg.ActivityFeedLimit,
		DBHealth:  dbHealth,
	})
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
