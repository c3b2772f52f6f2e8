// Package main is the entry point for the EssenceFlow API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"essenceflow/internal/domain/auth"
	"essenceflow/internal/infrastructure/config"
	v1 "essenceflow/internal/infrastructure/http/v1"
	"essenceflow/internal/infrastructure/storage"
	"essenceflow/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	log.Infow("starting essenceflow server", "env", cfg.App.Env, "driver", cfg.Database.Driver)

	// --- Storage ---
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "driver", cfg.Database.Driver, "error", err)
	}
	defer backend.Close()
	if backend.Pool != nil {
		backend.Pool.LogStats(ctx)
	}

	// --- Auth ---
	jwtService := auth.NewJWTService(cfg.AuthJWTConfig())
	authService := auth.NewService(backend.Users, backend.TxManager, jwtService, auth.DefaultServiceConfig())

	if cfg.Database.Driver == config.DriverMemory {
		if err := bootstrapAdmin(ctx, authService, cfg.Admin); err != nil {
			log.Fatalw("failed to create bootstrap admin", "error", err)
		}
	}

	// --- Router ---
	handler := v1.NewHandler(v1.RouterConfig{
		Logger:       log,
		JWTValidator: jwtService,
		AuthService:  authService,
		Repos: v1.Repositories{
			Inventory: backend.Inventory,
			Products:  backend.Products,
			Vendors:   backend.Vendors,
			Customers: backend.Customers,
			Sales:     backend.Sales,
			Purchases: backend.Purchases,
			Wastage:   backend.Wastage,
			Expenses:  backend.Expenses,
			Settings:  backend.Settings,
		},
		TxManager: backend.TxManager,
		Numerator: backend.Numerator,
		DB:        backend.DB,
		Dashboard: cfg.DashboardSettings(),
		CORS:      v1.CORSConfig(cfg.HTTP.CORSAllowOrigins, cfg.HTTP.CORSAllowMethods, cfg.HTTP.CORSAllowHeaders),
		Gzip:      cfg.HTTP.GzipEnabled,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// bootstrapAdmin creates the configured administrator when a password is set.
func bootstrapAdmin(ctx context.Context, svc *auth.Service, admin config.AdminConfig) error {
	if admin.Password == "" {
		logger.Warn(ctx, "memory driver without admin.password: no user can log in")
		return nil
	}
	exists, err := svc.Exists(ctx, admin.Email)
	if err != nil || exists {
		return err
	}
	_, err = svc.CreateUser(ctx, auth.CreateUserRequest{
		Name:     admin.Name,
		Email:    admin.Email,
		Password: admin.Password,
		Role:     auth.RoleAdmin,
	})
	if err == nil {
		logger.Info(ctx, "bootstrap admin created", "email", admin.Email)
	}
	return err
}
