package config

import (
	"encoding/json"
	"os"
	"strconv"

	"whatsweb/internal/constants"
	"whatsweb/internal/models"
)

var (
	ErrMissingProviderURL = models.ConfigError{Message: "missing provider base URL"}
)

// LoadConfig reads and validates the JSON configuration file, then
// applies environment overrides.
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(c *models.Config) error {
	if c.Provider.BaseURL == "" {
		return ErrMissingProviderURL
	}

	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.PublicDir == "" {
		c.Server.PublicDir = "public"
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeoutSec
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeoutSec
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeoutSec
	}

	if c.Provider.TimeoutSec <= 0 {
		c.Provider.TimeoutSec = constants.DefaultProviderTimeoutSec
	}

	if c.Fetch.MaxAttempts <= 0 {
		c.Fetch.MaxAttempts = constants.DefaultFetchMaxAttempts
	}
	if c.Fetch.RetryDelayMs <= 0 {
		c.Fetch.RetryDelayMs = constants.DefaultFetchRetryDelayMs
	}
	if c.Fetch.MediaConcurrency <= 0 {
		c.Fetch.MediaConcurrency = constants.DefaultMediaDownloadConcurrency
	}
	if c.Fetch.DefaultLimit <= 0 {
		c.Fetch.DefaultLimit = constants.DefaultMessageLimit
	}

	if c.Poll.ChatListIntervalSec <= 0 {
		c.Poll.ChatListIntervalSec = constants.DefaultChatListPollIntervalSec
	}
	if c.Poll.MessageIntervalSec <= 0 {
		c.Poll.MessageIntervalSec = constants.DefaultMessagePollIntervalSec
	}
	if c.Poll.AuthIntervalSec <= 0 {
		c.Poll.AuthIntervalSec = constants.DefaultAuthPollIntervalSec
	}

	if c.Media.UploadDir == "" {
		c.Media.UploadDir = "uploads"
	}
	if c.Media.MaxUploadSizeMB <= 0 {
		c.Media.MaxUploadSizeMB = constants.DefaultMaxUploadSizeMB
	}

	return nil
}

func applyEnvironmentOverrides(c *models.Config) {
	if url := os.Getenv("PROVIDER_URL"); url != "" {
		c.Provider.BaseURL = url
	}
	if key := os.Getenv("PROVIDER_API_KEY"); key != "" {
		c.Provider.APIKey = key
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}
