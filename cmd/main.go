package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-console/internal/config"
	"fleet-console/internal/domain/session"
	"fleet-console/internal/infrastructure/cache/redis"
	"fleet-console/internal/infrastructure/database/postgres"
	"fleet-console/internal/infrastructure/memory"
	"fleet-console/internal/logger"
	"fleet-console/internal/routes"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("fleet_api", cfg.FleetAPI.BaseURL),
	)

	sessions, closeStore, err := openSessionStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open session store", zap.String("store", cfg.Session.Store), zap.Error(err))
	}
	defer closeStore()

	jobCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()

	router := routes.SetupRoutes(jobCtx, cfg, sessions)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")
	stopJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}

// openSessionStore builds the configured session repository and its closer.
func openSessionStore(cfg *config.Config) (session.Repository, func(), error) {
	switch cfg.Session.Store {
	case config.StorePostgres:
		db, err := postgres.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSessionRepository(db), func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", zap.Error(err))
			}
		}, nil
	case config.StoreRedis:
		client, err := redis.Connect(&cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewSessionRepository(client, cfg.Redis.KeyPrefix), func() {
			if err := client.Close(); err != nil {
				logger.Error("Failed to close Redis connection", zap.Error(err))
			}
		}, nil
	default:
		logger.Warn("Using in-memory session store; sessions are lost on restart")
		return memory.NewSessionRepository(), func() {}, nil
	}
}
