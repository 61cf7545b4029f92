package models

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ChatsResponse is the body of GET /chats.
type ChatsResponse struct {
	Success bool   `json:"success"`
	Chats   []Chat `json:"chats"`
}

// MessagesResponse is the body of GET /messages/{chatId}. Warning is set
// when the fetch exhausted its attempts without producing messages; that
// is a valid terminal state, not an error.
type MessagesResponse struct {
	Success  bool      `json:"success"`
	Messages []Message `json:"messages"`
	Warning  string    `json:"warning,omitempty"`
}

// SendRequest is the body of POST /send.
type SendRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

// SendResponse is returned by POST /send and POST /send-media.
type SendResponse struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// QRResponse is the body of GET /auth/qr. QR is nil unless a scannable
// code is currently active.
type QRResponse struct {
	Success     bool    `json:"success"`
	QR          *string `json:"qr"`
	IsConnected bool    `json:"isConnected"`
}

// LogoutResponse is the body of POST /whatsapp-logout.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the generic failure body.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
