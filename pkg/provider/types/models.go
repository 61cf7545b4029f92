package types

import (
	"encoding/json"
	"time"
)

// FlexibleID tolerates the provider's two id encodings: a bare string or
// a structured object carrying a serialized form. Both must normalize to
// the same string so identities stay stable across polls.
type FlexibleID struct {
	Serialized string
	User       string
	raw        string
}

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.raw = s
		return nil
	}

	var obj struct {
		Serialized string `json:"_serialized"`
		User       string `json:"user"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && (obj.Serialized != "" || obj.User != "") {
		f.Serialized = obj.Serialized
		f.User = obj.User
		return nil
	}

	// Unrecognized shape: keep the raw encoding so the id is still
	// deterministic, if ugly.
	f.raw = string(data)
	return nil
}

func (f FlexibleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// String flattens the id with serialized form taking precedence over the
// bare value.
func (f FlexibleID) String() string {
	if f.Serialized != "" {
		return f.Serialized
	}
	if f.User != "" {
		return f.User
	}
	return f.raw
}

// IsZero reports whether no id information was present at all.
func (f FlexibleID) IsZero() bool {
	return f.Serialized == "" && f.User == "" && f.raw == ""
}

// RawContact is the contact block sometimes embedded in a chat record.
type RawContact struct {
	Name     string `json:"name"`
	PushName string `json:"pushname"`
}

// RawChat is a chat record as the provider returns it.
type RawChat struct {
	ID              FlexibleID  `json:"id"`
	Name            string      `json:"name"`
	Contact         *RawContact `json:"contact,omitempty"`
	LastMessage     string      `json:"lastMessage"`
	LastMessageTime int64       `json:"lastMessageTime"`
	UnreadCount     uint        `json:"unreadCount"`
	IsGroup         bool        `json:"isGroup"`
}

// RawMessage is a message record as the provider returns it. The provider
// reports the timestamp in either of two fields and flags media through
// any of three signals; normalization resolves both.
type RawMessage struct {
	ID        FlexibleID `json:"id"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Body      string     `json:"body"`
	Type      string     `json:"type"`
	T         int64      `json:"t"`
	Timestamp int64      `json:"timestamp"`
	FromMe    bool       `json:"fromMe"`
	IsMedia   bool       `json:"isMedia"`
	HasMedia  bool       `json:"hasMedia"`
	Mimetype  string     `json:"mimetype,omitempty"`
	Duration  int        `json:"duration,omitempty"`
	Filename  string     `json:"filename,omitempty"`
	Caption   string     `json:"caption,omitempty"`
}

// ErrorResponse is the provider gateway's error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ClientConfig configures the provider gateway client.
type ClientConfig struct {
	BaseURL string        `json:"base_url"`
	APIKey  string        `json:"api_key"`
	Timeout time.Duration `json:"timeout"`
}

// EventType identifies a provider event frame.
type EventType string

const (
	EventQR      EventType = "qr"
	EventStatus  EventType = "status"
	EventMessage EventType = "message"
	EventAck     EventType = "ack"
)

// Event is one frame from the provider event stream.
type Event struct {
	Event   EventType       `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// QRPayload carries a fresh pairing code. Base64 holds a PNG when the
// provider rendered one; Code is the raw pairing string otherwise.
type QRPayload struct {
	Base64 string `json:"base64,omitempty"`
	Code   string `json:"code,omitempty"`
	ASCII  string `json:"ascii,omitempty"`
}

// StatusPayload reports a session status transition.
type StatusPayload struct {
	Status  string `json:"status"`
	Session string `json:"session,omitempty"`
}

// AckPayload reports a delivery acknowledgment.
type AckPayload struct {
	ID   FlexibleID `json:"id"`
	Ack  int        `json:"ack"`
	Body string     `json:"body,omitempty"`
}
