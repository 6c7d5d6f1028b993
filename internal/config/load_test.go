package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

// setupEnv sets environment variables for the duration of the test.
// Empty values are treated as unset by Load.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
	}
}

// TestLoadDefaults verifies that the Load function sets the expected default values
// when no environment variables are set.
func TestLoadDefaults(t *testing.T) {
	setupEnv(t, map[string]string{
		"CALSHARE_SERVER_PORT":                 "",
		"CALSHARE_SERVER_LOG_LEVEL":            "",
		"CALSHARE_AUTH_TOKEN_SECRET":           "",
		"CALSHARE_AUTH_TOKEN_LIFETIME_MINUTES": "",
	})

	cfg, err := Load(t.TempDir())

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg, "Load() should return a non-nil config")
	assert.Equal(t, 8080, cfg.Server.Port, "Default server port should be 8080")
	assert.Equal(t, "info", cfg.Server.LogLevel, "Default log level should be 'info'")
	assert.Equal(t, 10, cfg.Server.ShutdownTimeoutSeconds)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Empty(t, cfg.Auth.TokenSecret)
	assert.Equal(t, 2, cfg.Task.WorkerCount)
	assert.Equal(t, 100, cfg.Task.QueueSize)
}

// TestLoadFromEnv verifies that the Load function correctly reads values from environment variables.
func TestLoadFromEnv(t *testing.T) {
	setupEnv(t, map[string]string{
		"CALSHARE_SERVER_PORT":                 "9090",
		"CALSHARE_SERVER_LOG_LEVEL":            "debug",
		"CALSHARE_AUTH_TOKEN_SECRET":           testSecret,
		"CALSHARE_AUTH_TOKEN_LIFETIME_MINUTES": "15",
	})

	cfg, err := Load(t.TempDir())

	require.NoError(t, err, "Load() should not return an error with valid environment variables")
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, testSecret, cfg.Auth.TokenSecret)
	assert.Equal(t, 15, cfg.Auth.TokenLifetimeMinutes)
}

// TestLoadFromFile verifies that a config.yaml is read and that env vars override it.
func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("server:\n  port: 7070\n  log_level: warn\nauth:\n  token_lifetime_minutes: 30\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	setupEnv(t, map[string]string{
		"CALSHARE_SERVER_PORT":      "",
		"CALSHARE_SERVER_LOG_LEVEL": "error",
	})

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port, "port should come from the file")
	assert.Equal(t, "error", cfg.Server.LogLevel, "env should override the file")
	assert.Equal(t, 30, cfg.Auth.TokenLifetimeMinutes)
}

// TestLoadValidationErrors verifies that the Load function correctly validates the configuration.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "Invalid port number",
			envVars: map[string]string{
				"CALSHARE_SERVER_PORT": "999999",
			},
		},
		{
			name: "Invalid log level",
			envVars: map[string]string{
				"CALSHARE_SERVER_LOG_LEVEL": "invalid-level",
			},
		},
		{
			name: "Short token secret",
			envVars: map[string]string{
				"CALSHARE_AUTH_TOKEN_SECRET": "tooshort",
			},
		},
		{
			name: "Non-positive worker count",
			envVars: map[string]string{
				"CALSHARE_TASK_WORKER_COUNT": "0",
			},
		},
		{
			name: "Non-positive token lifetime",
			envVars: map[string]string{
				"CALSHARE_AUTH_TOKEN_LIFETIME_MINUTES": "0",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setupEnv(t, tc.envVars)

			cfg, err := Load(t.TempDir())

			require.Error(t, err, "Load() should return an error with invalid configuration")
			assert.Contains(t, err.Error(), "validation failed")
			assert.Nil(t, cfg, "Config should be nil when an error occurs")
		})
	}
}
