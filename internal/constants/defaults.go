package constants

// Default polling configuration values
const (
	DefaultChatListPollIntervalSec = 10
	DefaultMessagePollIntervalSec  = 3
	DefaultAuthPollIntervalSec     = 3
	DefaultFetchMaxAttempts        = 3
	DefaultFetchRetryDelayMs       = 1000
	DefaultMessageLimit            = 100
	DefaultServerPort              = 3000
)

// Default media configuration values
const (
	DefaultMediaDownloadConcurrency = 4
	DefaultMaxUploadSizeMB          = 64
)

// Payload sniffing thresholds for untyped message bodies
const (
	BlobSniffMinBodyLength = 300
	BlobSniffMinRunLength  = 60
)

// Scroll distance (px) from the bottom within which the view keeps
// following the conversation after a repaint.
const ScrollFollowThresholdPx = 150

// Default timeout values
const (
	DefaultHTTPTimeoutSec        = 30
	DefaultProviderTimeoutSec    = 30
	DefaultGracefulShutdownSec   = 30
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultRestartDelayMs        = 1000
	DefaultEventReconnectSec     = 5
)
