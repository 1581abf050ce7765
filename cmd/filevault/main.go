package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"filevault/internal/api"
	"filevault/internal/logger"
	"filevault/pkg/config"
	"filevault/pkg/files"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (default: $XDG_CONFIG_HOME/filevault/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.SetLevel(cfg.Logging.Level)
	if err := logger.SetOutput(cfg.Logging.Output); err != nil {
		log.Fatalf("Failed to set log output: %v", err)
	}

	logger.Info("Log level set to: %s", cfg.Logging.Level)
	logger.Info("Storage root: %s", cfg.Storage.Root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect every store before accepting traffic so a misconfigured
	// backend fails startup instead of the first request.
	metadataStore, err := config.CreateMetadataStore(ctx, &cfg.Metadata)
	if err != nil {
		log.Fatalf("Failed to create metadata store: %v", err)
	}
	logger.Info("Metadata store ready (%s)", cfg.Metadata.Type)

	sessionStore, err := config.CreateSessionStore(ctx, &cfg.Sessions)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	logger.Info("Session store ready (%s)", cfg.Sessions.Type)

	contentStore, err := config.CreateContentStore(ctx, &cfg.Content)
	if err != nil {
		log.Fatalf("Failed to create content store: %v", err)
	}
	logger.Info("Content store ready (%s)", cfg.Content.Type)

	filesService := files.NewService(metadataStore, contentStore, cfg.Storage.Root)
	srv := api.New(cfg.Server, metadataStore, sessionStore, filesService)

	// Start server in background
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Serve(ctx)
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running on port %d. Press Ctrl+C to stop.", cfg.Server.Port)

	exitCode := 0
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown...")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error: %v", err)
			exitCode = 1
		} else {
			logger.Info("Server stopped gracefully")
		}

	case err := <-serverDone:
		if err != nil {
			logger.Error("Server error: %v", err)
			exitCode = 1
		} else {
			logger.Info("Server stopped")
		}
	}

	closeCtx, closeCancel := context.WithCancel(context.Background())
	defer closeCancel()

	if err := metadataStore.Close(closeCtx); err != nil {
		logger.Error("Failed to close metadata store: %v", err)
	}
	if err := sessionStore.Close(); err != nil {
		logger.Error("Failed to close session store: %v", err)
	}
	if err := contentStore.Close(); err != nil {
		logger.Error("Failed to close content store: %v", err)
	}

	os.Exit(exitCode)
}
