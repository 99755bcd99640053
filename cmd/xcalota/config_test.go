package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcalota/panel/internal/shell/restapi"
)

// =============================================================================
// Config Loading Tests
// =============================================================================

func TestLoadConfig_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	assert.Equal(t, restapi.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "name", cfg.API.NameField)
	assert.Equal(t, 3200*time.Millisecond, cfg.UI.NoticeTTL)

	assert.Equal(t, "127.0.0.1:3000", cfg.Stub.Address())
	assert.Equal(t, ":memory:", cfg.Stub.DSN)
	assert.Equal(t, "array", cfg.Stub.Envelope)
	assert.False(t, cfg.Stub.ReadDisabled)
	assert.False(t, cfg.Stub.FailCreate)
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)

	configContent := `
server:
  host: "127.0.0.1"
  port: 9000
  shutdown_timeout: 15s

log:
  level: "debug"
  format: "json"

api:
  base_url: "http://localhost:4000/api"
  timeout: 2s
  name_field: nome

ui:
  notice_ttl: 5s

stub:
  port: 4000
  envelope: data
  read_disabled: true
  seed_file: /tmp/seed.yaml
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(configContent), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address())
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "http://localhost:4000/api", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.Equal(t, "nome", cfg.API.NameField)
	assert.Equal(t, 5*time.Second, cfg.UI.NoticeTTL)
	assert.Equal(t, 4000, cfg.Stub.Port)
	assert.Equal(t, "data", cfg.Stub.Envelope)
	assert.True(t, cfg.Stub.ReadDisabled)
	assert.Equal(t, "/tmp/seed.yaml", cfg.Stub.SeedFile)
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	clearEnv(t)

	t.Setenv("XCALOTA_SERVER_PORT", "3001")
	t.Setenv("XCALOTA_LOG_LEVEL", "warn")
	t.Setenv("XCALOTA_API_BASE_URL", "http://api.internal/api")
	t.Setenv("XCALOTA_API_NAME_FIELD", "nome")
	t.Setenv("XCALOTA_STUB_FAIL_CREATE", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "http://api.internal/api", cfg.API.BaseURL)
	assert.Equal(t, "nome", cfg.API.NameField)
	assert.True(t, cfg.Stub.FailCreate)
}

func TestLoadConfig_APIURLAlias(t *testing.T) {
	clearEnv(t)

	t.Setenv("API_URL", "http://legacy:3000/api")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://legacy:3000/api", cfg.API.BaseURL)

	t.Setenv("XCALOTA_API_BASE_URL", "http://preferred/api")

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://preferred/api", cfg.API.BaseURL)
}

func TestLoadConfig_FileNotFound_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	require.NoError(t, err) // Should not error, just use defaults

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	clearEnv(t)

	tmpFile := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("invalid: yaml: content: [[["), 0644))

	_, err := LoadConfig(tmpFile)
	assert.Error(t, err)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown name field",
			env:     map[string]string{"XCALOTA_API_NAME_FIELD": "title"},
			wantErr: "api.name_field",
		},
		{
			name:    "unknown stub name field",
			env:     map[string]string{"XCALOTA_STUB_NAME_FIELD": "label"},
			wantErr: "stub.name_field",
		},
		{
			name:    "unknown envelope",
			env:     map[string]string{"XCALOTA_STUB_ENVELOPE": "xml"},
			wantErr: "stub.envelope",
		},
		{
			name:    "zero timeout",
			env:     map[string]string{"XCALOTA_API_TIMEOUT": "0s"},
			wantErr: "api.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// =============================================================================
// Logger Setup Tests
// =============================================================================

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LogConfig{Level: "warn", Format: "text"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LogConfig{Level: "info", Format: "json"}, &buf)

	logger.Info("hello", "key", "value")

	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"key":"value"`)
}

func TestSetupLogger_InvalidLevel(t *testing.T) {
	cfg := &Config{
		Log: LogConfig{
			Level:  "invalid",
			Format: "json",
		},
	}

	// Should fall back to info level, not panic
	logger := SetupLogger(cfg)
	assert.NotNil(t, logger)
}

// =============================================================================
// Helpers
// =============================================================================

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"XCALOTA_SERVER_HOST",
		"XCALOTA_SERVER_PORT",
		"XCALOTA_LOG_LEVEL",
		"XCALOTA_LOG_FORMAT",
		"XCALOTA_API_BASE_URL",
		"XCALOTA_API_TIMEOUT",
		"XCALOTA_API_NAME_FIELD",
		"XCALOTA_UI_NOTICE_TTL",
		"XCALOTA_STUB_ENVELOPE",
		"XCALOTA_STUB_NAME_FIELD",
		"XCALOTA_STUB_FAIL_CREATE",
		"XCALOTA_STUB_READ_DISABLED",
		"API_URL",
	}
	for _, v := range envVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}
