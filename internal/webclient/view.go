package webclient

import (
	"whatsweb/internal/classify"
	"whatsweb/internal/constants"
	"whatsweb/internal/models"
)

// Viewport models the scrollable message region. Offsets are pixels.
type Viewport struct {
	ScrollTop    int
	ScrollHeight int
	ClientHeight int
}

// NearBottom reports whether the view is close enough to the bottom to
// count as following the conversation.
func (v Viewport) NearBottom() bool {
	return v.ScrollHeight-v.ScrollTop-v.ClientHeight < constants.ScrollFollowThresholdPx
}

// RenderedMessage pairs a message with its computed render intent.
// Intents are recomputed on every paint, never cached.
type RenderedMessage struct {
	Message models.Message
	Intent  classify.RenderIntent
}

// ChatListView is the render surface for the chat list pane.
type ChatListView interface {
	RenderChatListLoading()
	RenderChats(chats []models.Chat)
	RenderChatListError(message string)
}

// MessageView is the render surface for the conversation pane. The
// sync layer never reads rendered state back; it owns its own snapshot.
type MessageView interface {
	RenderLoading()
	RenderMessages(messages []RenderedMessage)
	RenderEmpty()
	RenderMessagesError(message string)

	Viewport() Viewport
	SetScrollTop(px int)
	ScrollToBottom()
}

// OverlayView is the QR bootstrap overlay surface.
type OverlayView interface {
	ShowQR(imageData string)
	HideQR()
}
