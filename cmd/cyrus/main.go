package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cyrus/internal/cli"
	"cyrus/internal/config"
	"cyrus/internal/errors"
	"cyrus/internal/identity"
	"cyrus/internal/observability"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real env vars win
	_ = godotenv.Load()

	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Pull the API key and identity token from Vault when enabled
	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		logger.LogError(err, "Failed to apply Vault secrets")
		os.Exit(1)
	}

	// Resolve who we are acting as. No configured identity means anonymous;
	// a configured token that fails to parse aborts startup.
	id, err := identity.NewProvider(cfg.Auth, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize identity provider")
		os.Exit(1)
	}

	if cfg.Auth.Watch.Enabled && cfg.Auth.TokenFile != "" {
		watcher := config.NewTokenWatcher(cfg.Auth.TokenFile, cfg.Auth.Watch.DebounceDelay, id.UpdateToken, logger)
		if err := watcher.Start(); err != nil {
			logger.LogError(err, "Failed to start token watcher")
		} else {
			defer watcher.Stop()
		}
	}

	obsConfig := observability.GetObservabilityConfig(cfg, cli.Version)
	om, err := observability.NewObservabilityManager(obsConfig, cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialize observability")
		os.Exit(1)
	}
	defer func() {
		if err := om.Shutdown(context.Background()); err != nil {
			logger.LogError(err, "Failed to shut down observability")
		}
	}()

	// Log startup
	logger.Info("Starting cyrus",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"api_base_url", cfg.API.BaseURL,
		"anonymous", id.Current().Anonymous())

	// Execute command with cancellable context
	if err := cli.Execute(ctx, cfg, logger, id, om); err != nil {
		logger.LogError(err, "Command failed")
		stop()
		os.Exit(1)
	}
}
