package models

// ConfigError represents a configuration validation failure.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int    `json:"port"`
	PublicDir       string `json:"public_dir"`
	ReadTimeoutSec  int    `json:"read_timeout_sec"`
	WriteTimeoutSec int    `json:"write_timeout_sec"`
	IdleTimeoutSec  int    `json:"idle_timeout_sec"`
}

// ProviderConfig holds connection settings for the provider gateway.
type ProviderConfig struct {
	BaseURL    string `json:"base_url"`
	APIKey     string `json:"api_key"`
	TimeoutSec int    `json:"timeout_sec"`
}

// FetchConfig bounds the message retrieval retry loop.
type FetchConfig struct {
	MaxAttempts      int `json:"max_attempts"`
	RetryDelayMs     int `json:"retry_delay_ms"`
	MediaConcurrency int `json:"media_concurrency"`
	DefaultLimit     int `json:"default_limit"`
}

// PollConfig holds the client poller intervals.
type PollConfig struct {
	ChatListIntervalSec int `json:"chat_list_interval_sec"`
	MessageIntervalSec  int `json:"message_interval_sec"`
	AuthIntervalSec     int `json:"auth_interval_sec"`
}

// MediaConfig holds upload handling settings.
type MediaConfig struct {
	UploadDir       string `json:"upload_dir"`
	MaxUploadSizeMB int    `json:"max_upload_size_mb"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled        bool    `json:"enabled"`
	ServiceName    string  `json:"service_name"`
	ServiceVersion string  `json:"service_version"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlp_endpoint"`
	SampleRate     float64 `json:"sample_rate"`
	UseStdout      bool    `json:"use_stdout"`
}

// Config is the root configuration document.
type Config struct {
	LogLevel string         `json:"log_level"`
	Server   ServerConfig   `json:"server"`
	Provider ProviderConfig `json:"provider"`
	Fetch    FetchConfig    `json:"fetch"`
	Poll     PollConfig     `json:"poll"`
	Media    MediaConfig    `json:"media"`
	Tracing  TracingConfig  `json:"tracing"`
}
