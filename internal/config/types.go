package config

import "time"

// ProviderType identifies an LLM vendor.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderClaude ProviderType = "claude"
	ProviderGoogle ProviderType = "google"
)

// Config is the top-level autodiagram configuration, corresponding to .autodiagram.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	Temperature       float64      `yaml:"temperature" koanf:"temperature"`
	MaxTokens         int          `yaml:"max_tokens" koanf:"max_tokens"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	OutputDir         string       `yaml:"output_dir" koanf:"output_dir"`
	Include           []string     `yaml:"include" koanf:"include"`
	Exclude           []string     `yaml:"exclude" koanf:"exclude"`
	// Extensions limits per-file class diagrams. Empty means every source file.
	Extensions []string     `yaml:"extensions" koanf:"extensions"`
	LogLevel   string       `yaml:"log_level" koanf:"log_level"`
	LogFormat  string       `yaml:"log_format" koanf:"log_format"`
	Server     ServerConfig `yaml:"server" koanf:"server"`
	Google     GoogleConfig `yaml:"google" koanf:"google"`
}

// ServerConfig holds settings for the job service.
type ServerConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	MaxConcurrency  int           `yaml:"max_concurrency" koanf:"max_concurrency"`
	QueueSize       int           `yaml:"queue_size" koanf:"queue_size"`
	JobTimeout      time.Duration `yaml:"job_timeout" koanf:"job_timeout"`
	DBPath          string        `yaml:"db_path" koanf:"db_path"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// GoogleConfig holds Vertex AI settings used with service-account credentials.
type GoogleConfig struct {
	Location string `yaml:"location" koanf:"location"`
}
