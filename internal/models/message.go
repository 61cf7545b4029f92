package models

import "strconv"

// MessageType is the provider's declared payload type for a message.
// The declared type is advisory only; classification may override it.
type MessageType string

const (
	MessageTypeChat        MessageType = "chat"
	MessageTypeImage       MessageType = "image"
	MessageTypeVideo       MessageType = "video"
	MessageTypeAudio       MessageType = "audio"
	MessageTypePTT         MessageType = "ptt"
	MessageTypeSticker     MessageType = "sticker"
	MessageTypeDocument    MessageType = "document"
	MessageTypeApplication MessageType = "application"
	MessageTypeUnknown     MessageType = "unknown"
)

// Chat is one entry in the chat list. The list is rebuilt wholesale from
// every provider snapshot; individual fields are never patched.
type Chat struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	LastMessage string  `json:"lastMessage"`
	Timestamp   int64   `json:"timestamp"`
	UnreadCount uint    `json:"unreadCount"`
	IsGroup     bool    `json:"isGroup"`
	ProfilePic  *string `json:"profilePic"`
}

// Message is the normalized wire form of a provider message record.
// Timestamp is stored in seconds; scale at render time only.
type Message struct {
	ID        string      `json:"id"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Body      string      `json:"body"`
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
	FromMe    bool        `json:"fromMe"`
	MediaData string      `json:"mediaUrl,omitempty"`
	IsMedia   bool        `json:"isMedia"`
	Mimetype  string      `json:"mimetype,omitempty"`
	Duration  int         `json:"duration,omitempty"`
	Filename  string      `json:"filename,omitempty"`
	Caption   string      `json:"caption,omitempty"`
}

// Identity returns the stable identity for the message: the provider id
// when present, otherwise the timestamp. Providers occasionally omit ids
// and that must be tolerated.
func (m *Message) Identity() string {
	if m.ID != "" {
		return m.ID
	}
	return strconv.FormatInt(m.Timestamp, 10)
}
