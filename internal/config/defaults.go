package config

import (
	"time"

	"github.com/ziadkadry99/autodiagram/internal/llm"
)

// DefaultConfigFile is the configuration file looked up in the working directory.
const DefaultConfigFile = ".autodiagram.yml"

// DefaultExcludes are glob patterns excluded from analysis by default.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"*.min.js",
	"*.min.css",
	"*.lock",
	"go.sum",
	"package-lock.json",
	"yarn.lock",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGoogle,
		Model:       llm.DefaultModel(llm.VendorGoogle),
		Temperature: 0.1,
		MaxTokens:   4096,
		OutputDir:   "docs/diagrams",
		Include:     []string{"**"},
		Exclude:     append([]string(nil), DefaultExcludes...),
		LogLevel:    "info",
		LogFormat:   "text",
		Server: ServerConfig{
			Port:           8001,
			MaxConcurrency: 2,
			QueueSize:      32,
			JobTimeout:     30 * time.Minute,
			DBPath:         ".autodiagram/jobs.db",
		},
		Google: GoogleConfig{Location: "us-central1"},
	}
}
