package config

import (
	"os"
	"path/filepath"
	"testing"

	"whatsweb/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{"provider":{"base_url":"http://localhost:21465"}}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "public", cfg.Server.PublicDir)
	assert.Equal(t, constants.DefaultFetchMaxAttempts, cfg.Fetch.MaxAttempts)
	assert.Equal(t, constants.DefaultFetchRetryDelayMs, cfg.Fetch.RetryDelayMs)
	assert.Equal(t, constants.DefaultChatListPollIntervalSec, cfg.Poll.ChatListIntervalSec)
	assert.Equal(t, constants.DefaultMessagePollIntervalSec, cfg.Poll.MessageIntervalSec)
	assert.Equal(t, constants.DefaultAuthPollIntervalSec, cfg.Poll.AuthIntervalSec)
	assert.Equal(t, "uploads", cfg.Media.UploadDir)
	assert.Equal(t, constants.DefaultMaxUploadSizeMB, cfg.Media.MaxUploadSizeMB)
}

func TestLoadConfigExplicitValuesKept(t *testing.T) {
	path := writeConfig(t, `{
		"provider": {"base_url": "http://gateway:21465", "api_key": "secret", "timeout_sec": 5},
		"server": {"port": 8080},
		"fetch": {"max_attempts": 5, "retry_delay_ms": 250},
		"poll": {"chat_list_interval_sec": 30}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Provider.APIKey)
	assert.Equal(t, 5, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 250, cfg.Fetch.RetryDelayMs)
	assert.Equal(t, 30, cfg.Poll.ChatListIntervalSec)
}

func TestLoadConfigMissingProviderURL(t *testing.T) {
	path := writeConfig(t, `{}`)
	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrMissingProviderURL)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfigMalformedJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `{"provider":{"base_url":"http://file:21465"},"server":{"port":3000}}`)

	t.Setenv("PROVIDER_URL", "http://env:21465")
	t.Setenv("PROVIDER_API_KEY", "env-key")
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env:21465", cfg.Provider.BaseURL)
	assert.Equal(t, "env-key", cfg.Provider.APIKey)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigInvalidPortEnvIgnored(t *testing.T) {
	path := writeConfig(t, `{"provider":{"base_url":"http://file:21465"},"server":{"port":3000}}`)
	t.Setenv("PORT", "not-a-port")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}
