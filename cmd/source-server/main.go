package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fathomdata/shortcut-source/internal/config"
	"github.com/fathomdata/shortcut-source/internal/credential"
	"github.com/fathomdata/shortcut-source/internal/export"
	"github.com/fathomdata/shortcut-source/internal/gateway"

	_ "github.com/fathomdata/shortcut-source/pkg/connector"
)

func main() {
	cfg := config.LoadServerConfig()

	// Configuration flags
	port := flag.Int("port", cfg.Port, "HTTP server port")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	// Credential store: Postgres when configured, in-memory otherwise.
	var store credential.Store
	if cfg.DatabaseURL != "" {
		pgStore, err := credential.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("credential store init failed", "error", err)
			os.Exit(1)
		}
		store = pgStore
		logger.Info("credential store ready", "backend", "postgres")
	} else {
		store = credential.NewMemoryStore()
		logger.Warn("no database configured, credentials are held in memory only")
	}
	defer store.Close()

	// Optional snapshot export sink.
	var snapshot *export.Sink
	if cfg.SnapshotEnabled() {
		s3, err := export.NewS3Client(&export.Config{
			EndpointURL:     cfg.SnapshotEndpointURL,
			AccessKeyID:     cfg.SnapshotAccessKeyID,
			SecretAccessKey: cfg.SnapshotSecretAccessKey,
			Bucket:          cfg.SnapshotBucket,
			Region:          cfg.SnapshotRegion,
			UseSSL:          cfg.SnapshotUseSSL,
		})
		if err != nil {
			logger.Error("snapshot store init failed", "error", err)
			os.Exit(1)
		}
		snapshot, err = export.New(&export.Config{
			Bucket:     cfg.SnapshotBucket,
			BasePrefix: cfg.SnapshotBasePrefix,
		}, s3)
		if err != nil {
			logger.Error("snapshot sink init failed", "error", err)
			os.Exit(1)
		}
		logger.Info("snapshot export enabled", "bucket", cfg.SnapshotBucket)
	}

	svc := gateway.NewService(store, gateway.Options{
		UpstreamBaseURL: cfg.UpstreamBaseURL,
		Snapshot:        snapshot,
		Logger:          logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Host, *port)
	server := &http.Server{
		Addr:    addr,
		Handler: svc.Routes(),
	}

	// Start server in goroutine
	go func() {
		logger.Info("source server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		_ = server.Close()
		return
	}
	logger.Info("server stopped")
}
