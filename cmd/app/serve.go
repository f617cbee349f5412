package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskshare-api/internal/auth"
	"github.com/BuzzLyutic/taskshare-api/internal/config"
	"github.com/BuzzLyutic/taskshare-api/internal/handler"
	"github.com/BuzzLyutic/taskshare-api/internal/logger"
	"github.com/BuzzLyutic/taskshare-api/internal/metrics"
	"github.com/BuzzLyutic/taskshare-api/internal/repo"
	"github.com/BuzzLyutic/taskshare-api/internal/service"
	"github.com/BuzzLyutic/taskshare-api/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Подключаем логгер
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if cfg.InsecureSecret() {
		log.Warn("JWT_SECRET is not set, tokens are signed with the default secret")
	}

	// Подключаем БД
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close() // Закрываем пул при выходе

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info("connected to database")

	// Репозитории и сервисы
	users := repo.NewUserRepo(pool)
	tasks := repo.NewTaskRepo(pool)
	projects := repo.NewProjectRepo(pool)
	shares := repo.NewShareRepo(pool)

	tokens := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)
	projectService := service.NewProjectService(projects)
	registry := metrics.New()

	router := handler.NewRouter(handler.Deps{
		Auth:     service.NewAuthService(users, tokens, cfg.Security.BcryptCost),
		Users:    service.NewUserService(users, cfg.Security.BcryptCost),
		Tasks:    service.NewTaskService(tasks, projects),
		Projects: projectService,
		Shares:   service.NewShareService(projectService, shares, users),

		DB:          pool,
		Metrics:     registry,
		AuthLimiter: handler.NewRateLimiter(cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow),
		Logger:      log,

		ExposeMetrics: cfg.Metrics.Enabled,
	})

	// Фоновое истечение просроченных задач, только если включено
	var sweeper *worker.Sweeper
	if cfg.Worker.Enabled {
		sweeper = worker.NewSweeper(tasks, registry, log, cfg.Worker.ExpiryInterval)
		sweeper.Start(ctx)
		log.Info("task expiry sweeper started", zap.Duration("interval", cfg.Worker.ExpiryInterval))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { // Запуск сервера
		log.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sweeper != nil {
		sweeper.Stop()
	}
	log.Info("server stopped")
	return nil
}
