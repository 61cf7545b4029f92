package types

import (
	"context"
	"encoding/json"
)

// Client is the capability surface consumed from the provider gateway.
// All HTTP handlers share one client instance; calls are serialized by
// the provider's own single-session nature, not by this interface.
type Client interface {
	ListChats(ctx context.Context) ([]RawChat, error)
	GetMessages(ctx context.Context, chatID string, count int, direction string) ([]RawMessage, error)
	GetAllMessagesInChat(ctx context.Context, chatID string) ([]RawMessage, error)
	DownloadMedia(ctx context.Context, messageID string) (string, error)
	SendText(ctx context.Context, chatID, text string) (json.RawMessage, error)
	SendFile(ctx context.Context, chatID, filePath, filename, caption string) (json.RawMessage, error)
	Logout(ctx context.Context) error
	Close(ctx context.Context) error
}

// EventHandler consumes one event payload. Handler errors are logged by
// the stream, never fatal to it.
type EventHandler func(ctx context.Context, payload []byte) error

// EventStream delivers provider callback events (qr, status, message,
// ack) to registered handlers.
type EventStream interface {
	RegisterEventHandler(eventType EventType, handler EventHandler)
	Start(ctx context.Context) error
	Stop()
}
