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

	"hospital-workflow-backend/internal/config"
	"hospital-workflow-backend/internal/database"
	"hospital-workflow-backend/internal/events"
	"hospital-workflow-backend/internal/handler"
	"hospital-workflow-backend/internal/logger"
	"hospital-workflow-backend/internal/metrics"
	"hospital-workflow-backend/internal/repository"
	"hospital-workflow-backend/internal/service"
	"hospital-workflow-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	redis  *redis.Client

	workflow *service.WorkflowService
	rooms    *service.RoomService
	auth     *service.AuthService
}

// newBase loads configuration, the logger and the database
func newBase() (*app, error) {
	cfg := config.LoadConfig()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Service)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &app{cfg: cfg, logger: log, db: db}, nil
}

// newApp is newBase plus migrations, optional seeding and the services
func newApp() (*app, error) {
	a, err := newBase()
	if err != nil {
		return nil, err
	}

	utils.InitJWT(
		a.cfg.JWT.AccessSecret,
		a.cfg.JWT.RefreshSecret,
		a.cfg.JWT.AccessTokenExpiry,
		a.cfg.JWT.RefreshTokenExpiry,
	)

	if err := database.Migrate(a.db); err != nil {
		a.close()
		return nil, err
	}
	if a.cfg.Seed.OnStartup {
		if err := database.SeedReferenceData(a.db, a.logger); err != nil {
			a.close()
			return nil, err
		}
	}

	bus := events.NewBus(a.logger)
	a.redis, err = database.ConnectRedis(a.cfg, a.logger)
	if err != nil {
		// Notifications are optional; the workflow runs without them
		a.logger.Warn("change events will not be forwarded to redis", zap.Error(err))
	}
	if a.redis != nil {
		events.NewRedisPublisher(a.redis, a.cfg.Redis.ChannelPrefix, a.logger).Attach(bus)
	}

	store := repository.NewStore(a.db)
	a.workflow = service.NewWorkflowService(store, a.cfg.Billing, bus, metrics.NewWorkflowMetrics(prometheus.DefaultRegisterer), a.logger)
	a.rooms = service.NewRoomService(store.Rooms, store.Departments, store.Audit)
	a.auth = service.NewAuthService(store.Users, store.Audit)
	return a, nil
}

func (a *app) serve() error {
	gin.SetMode(a.cfg.Server.GinMode)
	router := handler.NewRouter(handler.RouterDeps{
		Config:   a.cfg,
		Logger:   a.logger,
		Workflow: a.workflow,
		Rooms:    a.rooms,
		Auth:     a.auth,
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	a.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	a.logger.Info("server exited")
	return nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}
