package cli

import (
	"context"

	"cyrus/internal/api"
	"cyrus/internal/config"
	"cyrus/internal/errors"
	"cyrus/internal/identity"
	"cyrus/internal/observability"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}
type identityKeyType struct{}
type obsKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}
var identityKey = identityKeyType{}
var obsKey = obsKeyType{}

var rootCmd = &cobra.Command{
	Use:   "cyrus",
	Short: "A CLI client for tailoring resumes to job descriptions",
	Long: `Cyrus is a command-line client for the resume tailoring service.
Upload a resume PDF, paste a job description, and get ATS-scored tailored
bullets back, with per-bullet deep rewrites, session history, and career-prep
artifacts like interview questions and skill-gap roadmaps.`,
}

// Execute runs the CLI with all shared dependencies attached to the context
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger, id *identity.Provider, om *observability.ObservabilityManager) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	ctx = context.WithValue(ctx, identityKey, id)
	ctx = context.WithValue(ctx, obsKey, om)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// getIdentityFromContext is a helper function to get the identity provider from context
func getIdentityFromContext(ctx context.Context) *identity.Provider {
	if id, ok := ctx.Value(identityKey).(*identity.Provider); ok {
		return id
	}
	panic("identity provider not found in context") // Should not happen if properly initialized
}

// getObservabilityFromContext is a helper function to get the observability manager from context
func getObservabilityFromContext(ctx context.Context) *observability.ObservabilityManager {
	if om, ok := ctx.Value(obsKey).(*observability.ObservabilityManager); ok {
		return om
	}
	panic("observability manager not found in context") // Should not happen if properly initialized
}

// newAPIClient builds the service client from context dependencies
func newAPIClient(ctx context.Context) *api.Client {
	return api.NewClient(getConfigFromContext(ctx), getIdentityFromContext(ctx), getLoggerFromContext(ctx), getObservabilityFromContext(ctx))
}

func init() {
	rootCmd.AddCommand(tailorCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(versionCmd)
}
