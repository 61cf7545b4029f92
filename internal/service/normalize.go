package service

import (
	"time"

	"whatsweb/internal/models"
	"whatsweb/pkg/provider/types"
)

// mediaTypes are the declared types that always imply a media payload.
var mediaTypes = map[string]struct{}{
	"image":       {},
	"video":       {},
	"sticker":     {},
	"audio":       {},
	"ptt":         {},
	"document":    {},
	"application": {},
}

// NormalizeChat flattens a provider chat record into the wire form. The
// id is normalized to a string regardless of which encoding the provider
// used on this particular call.
func NormalizeChat(raw types.RawChat) models.Chat {
	id := raw.ID.String()

	name := raw.Name
	if name == "" && raw.Contact != nil {
		name = raw.Contact.Name
		if name == "" {
			name = raw.Contact.PushName
		}
	}
	if name == "" {
		name = id
	}

	timestamp := raw.LastMessageTime
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}

	return models.Chat{
		ID:          id,
		Name:        name,
		LastMessage: raw.LastMessage,
		Timestamp:   timestamp,
		UnreadCount: raw.UnreadCount,
		IsGroup:     raw.IsGroup,
	}
}

// NormalizeMessage flattens a provider message record. Timestamps are
// kept in seconds; the provider reports them in either the short or the
// long field depending on the listing call that produced the record.
func NormalizeMessage(raw types.RawMessage) models.Message {
	timestamp := raw.T
	if timestamp == 0 {
		timestamp = raw.Timestamp
	}

	msgType := models.MessageType(raw.Type)
	if raw.Type == "" {
		msgType = models.MessageTypeUnknown
	}

	return models.Message{
		ID:        raw.ID.String(),
		From:      raw.From,
		To:        raw.To,
		Body:      raw.Body,
		Type:      msgType,
		Timestamp: timestamp,
		FromMe:    raw.FromMe,
		IsMedia:   IsMediaBearing(raw),
		Mimetype:  raw.Mimetype,
		Duration:  raw.Duration,
		Filename:  raw.Filename,
		Caption:   raw.Caption,
	}
}

// IsMediaBearing reports whether the record carries a media payload by
// any of the provider's three signals: an explicit media type tag or
// either of the generic markers.
func IsMediaBearing(raw types.RawMessage) bool {
	if _, ok := mediaTypes[raw.Type]; ok {
		return true
	}
	return raw.IsMedia || raw.HasMedia
}
