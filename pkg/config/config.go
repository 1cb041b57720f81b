package config

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultBaseURL   = "http://localhost:8000/api"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "taskforge-cli"

	FormatAuto = "auto"
	FormatJSON = "json"
	FormatTUI  = "tui"
)

// Config represents the complete configuration of the TaskForge client.
type Config struct {
	API     APIConfig     `koanf:"api"     validate:"required"`
	Auth    AuthConfig    `koanf:"auth"`
	CLI     CLIConfig     `koanf:"cli"`
	Session SessionConfig `koanf:"session"`
	Runtime RuntimeConfig `koanf:"runtime" validate:"required"`
}

// APIConfig describes how to reach the backend.
type APIConfig struct {
	BaseURL   string        `koanf:"base_url"   validate:"required,base_url" env:"TASKFORGE_API_BASE_URL"`
	Timeout   time.Duration `koanf:"timeout"    validate:"min=0"             env:"TASKFORGE_API_TIMEOUT"`
	UserAgent string        `koanf:"user_agent"                              env:"TASKFORGE_API_USER_AGENT"`
}

// AuthConfig holds optional non-interactive credentials for `auth login`.
type AuthConfig struct {
	Email    string          `koanf:"email"    validate:"omitempty,email" env:"TASKFORGE_AUTH_EMAIL"`
	Password SensitiveString `koanf:"password"                            env:"TASKFORGE_AUTH_PASSWORD" sensitive:"true"`
}

// CLIConfig contains command-line presentation settings.
type CLIConfig struct {
	DefaultFormat string `koanf:"default_format" validate:"oneof=auto json tui" env:"TASKFORGE_FORMAT"`
	Interactive   bool   `koanf:"interactive"                                   env:"TASKFORGE_INTERACTIVE"`
	NoColor       bool   `koanf:"no_color"                                      env:"TASKFORGE_NO_COLOR"`
}

// SessionConfig locates the persisted session (cookies and auth error).
type SessionConfig struct {
	Path string `koanf:"path" validate:"required" env:"TASKFORGE_SESSION_PATH"`
}

// RuntimeConfig contains logging behavior.
type RuntimeConfig struct {
	LogLevel  string `koanf:"log_level"  validate:"oneof=debug info warn error disabled" env:"TASKFORGE_LOG_LEVEL"`
	LogJSON   bool   `koanf:"log_json"                                                  env:"TASKFORGE_LOG_JSON"`
	LogSource bool   `koanf:"log_source"                                                env:"TASKFORGE_LOG_SOURCE"`
}

// Service defines the configuration management service interface.
type Service interface {
	// Load loads configuration from the specified sources with precedence order.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate checks if the configuration meets all validation requirements.
	Validate(config *Config) error
	// GetSource returns the source type that provided a configuration key.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	// Load reads configuration from the source.
	Load() (map[string]any, error)
	// Type returns the source type identifier.
	Type() SourceType
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
		},
		CLI: CLIConfig{
			DefaultFormat: FormatAuto,
			Interactive:   true,
		},
		Session: SessionConfig{
			Path: DefaultSessionPath(),
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
	}
}

// DefaultSessionPath returns the per-user session file location.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".taskforge", "session.json")
	}
	return filepath.Join(dir, "taskforge", "session.json")
}
