package webclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"whatsweb/internal/models"
)

// ErrUnauthorized marks a 401 from the server: the surrounding
// application session is not established yet. Pollers treat it as "not
// yet ready", never as a failure.
var ErrUnauthorized = errors.New("unauthorized")

// ChatFetcher supplies the chat list.
type ChatFetcher interface {
	ListChats(ctx context.Context) ([]models.Chat, error)
}

// MessageFetcher supplies a chat's messages.
type MessageFetcher interface {
	FetchMessages(ctx context.Context, chatID string, limit int) ([]models.Message, string, error)
}

// AuthFetcher supplies the QR/connection status.
type AuthFetcher interface {
	FetchAuthStatus(ctx context.Context) (models.QRResponse, error)
}

// APIClient talks to the whatsweb HTTP API, implementing the fetcher
// interfaces the pollers consume.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates an API client for the server at baseURL.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) ListChats(ctx context.Context) ([]models.Chat, error) {
	var resp models.ChatsResponse
	if err := c.getJSON(ctx, "/chats", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("chat list request was not successful")
	}
	return resp.Chats, nil
}

func (c *APIClient) FetchMessages(ctx context.Context, chatID string, limit int) ([]models.Message, string, error) {
	path := fmt.Sprintf("/messages/%s?limit=%d", url.PathEscape(chatID), limit)
	var resp models.MessagesResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, "", err
	}
	if !resp.Success {
		return nil, "", fmt.Errorf("message request was not successful")
	}
	return resp.Messages, resp.Warning, nil
}

func (c *APIClient) FetchAuthStatus(ctx context.Context) (models.QRResponse, error) {
	var resp models.QRResponse
	if err := c.getJSON(ctx, "/auth/qr", &resp); err != nil {
		return models.QRResponse{}, err
	}
	return resp, nil
}

func (c *APIClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
