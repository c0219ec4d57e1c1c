package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ziadkadry99/autodiagram/internal/config"
	"github.com/ziadkadry99/autodiagram/internal/diagrams"
	"github.com/ziadkadry99/autodiagram/internal/llm"
	"github.com/ziadkadry99/autodiagram/internal/logging"
)

// loadConfig loads the dotenv file and the config, and validates the result.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `autodiagram init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger on w. --verbose forces debug level.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.New(w, level, cfg.LogFormat)
}

// createLLMProviderFromConfig resolves credentials and builds the configured
// provider, rate limited when requests_per_minute is set.
func createLLMProviderFromConfig(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	creds, err := cfg.LoadCredentials()
	if err != nil {
		return nil, err
	}
	provider, err := llm.SelectProvider(ctx, string(cfg.Provider), creds, cfg.Model, cfg.Temperature)
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerMinute > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute)
	}
	return provider, nil
}

// newGenerator wraps provider with the configured generation settings.
func newGenerator(cfg *config.Config, provider llm.Provider, logger *slog.Logger) *diagrams.Generator {
	return diagrams.NewGenerator(provider,
		diagrams.WithModel(cfg.Model),
		diagrams.WithTemperature(cfg.Temperature),
		diagrams.WithMaxTokens(cfg.MaxTokens),
		diagrams.WithLogger(logger),
	)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
