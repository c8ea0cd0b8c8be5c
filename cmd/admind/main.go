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

	"github.com/SherClockHolmes/webpush-go"

	"booking-admin-backend/config"
	"booking-admin-backend/internal/activity"
	"booking-admin-backend/internal/api"
	"booking-admin-backend/internal/db"
	"booking-admin-backend/internal/logs"
	"booking-admin-backend/internal/notification"
	"booking-admin-backend/internal/preload"
	"booking-admin-backend/internal/upstream"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logs.Logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logs.Init(logs.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logs.Logger.Infof("configuration loaded from %s", configPath)

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled {
		if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
			logs.Logger.Fatal("push is enabled but VAPID keys are not configured")
		}
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logs.Logger.Fatalf("failed to initialize database: %v", err)
	}
	logs.Logger.Info("database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	activities := activity.NewLog(gormDB)
	client := upstream.New(&cfg.Upstream)
	store := preload.NewStore(client, cfg.Preload.UserFetchSize)

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
	pool.Start(ctx)

	// Warm the caches in the background; the API answers /api/status while
	// this runs so the UI can show its loading screen.
	go func() {
		if err := store.PreloadAll(ctx); err != nil {
			logs.Logger.Warnf("initial preload finished with errors: %v", err)
		} else {
			logs.Logger.Info("initial preload complete")
		}
	}()

	handler := api.NewHandler(store, client, activities, pool, gormDB, webpushOptions)
	router := api.NewRouter(cfg, handler)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logs.Logger.Infof("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logs.Logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logs.Logger.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logs.Logger.Fatalf("HTTP server shutdown: %v", err)
	}

	logs.Logger.Info("server gracefully stopped")
}
