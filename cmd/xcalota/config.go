package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/xcalota/panel/internal/shell/restapi"
	"github.com/xcalota/panel/internal/shell/stub"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	API    APIConfig    `mapstructure:"api"`
	UI     UIConfig     `mapstructure:"ui"`
	Stub   StubConfig   `mapstructure:"stub"`
}

// ServerConfig holds HTTP server configuration for the panel.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// APIConfig points the panel at the restaurant API.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	NameField string        `mapstructure:"name_field"` // "name" or "nome"
}

// UIConfig holds panel behavior settings.
type UIConfig struct {
	NoticeTTL time.Duration `mapstructure:"notice_ttl"`
}

// StubConfig holds configuration for the stub restaurant API.
type StubConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	DSN          string `mapstructure:"dsn"`
	Envelope     string `mapstructure:"envelope"`   // array, items or data
	NameField    string `mapstructure:"name_field"` // key used in responses
	ReadDisabled bool   `mapstructure:"read_disabled"`
	FailCreate   bool   `mapstructure:"fail_create"`
	SeedFile     string `mapstructure:"seed_file"`
}

// Address returns the stub address in host:port format.
func (c StubConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("api.base_url", restapi.DefaultBaseURL)
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.name_field", restapi.NameFieldName)
	v.SetDefault("ui.notice_ttl", "3200ms")

	v.SetDefault("stub.host", "127.0.0.1")
	v.SetDefault("stub.port", 3000)
	v.SetDefault("stub.dsn", ":memory:")
	v.SetDefault("stub.envelope", string(stub.EnvelopeArray))
	v.SetDefault("stub.name_field", restapi.NameFieldName)
	v.SetDefault("stub.read_disabled", false)
	v.SetDefault("stub.fail_create", false)
	v.SetDefault("stub.seed_file", "")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("XCALOTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// API_URL is accepted as an alias for the base URL.
	if err := v.BindEnv("api.base_url", "XCALOTA_API_BASE_URL", "API_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind api.base_url: %w", err)
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	for key, field := range map[string]string{"api.name_field": c.API.NameField, "stub.name_field": c.Stub.NameField} {
		if field != restapi.NameFieldName && field != restapi.NameFieldNome {
			return fmt.Errorf("%s must be %q or %q, got %q", key, restapi.NameFieldName, restapi.NameFieldNome, field)
		}
	}
	if _, err := stub.ParseEnvelope(c.Stub.Envelope); err != nil {
		return fmt.Errorf("stub.envelope: %w", err)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	return nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
// Logs go to stderr so command output on stdout stays clean.
func SetupLogger(cfg *Config) *slog.Logger {
	return newLogger(cfg.Log, os.Stderr)
}

func newLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
