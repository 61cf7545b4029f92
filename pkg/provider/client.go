package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"whatsweb/pkg/provider/types"
)

const defaultTimeout = 30 * time.Second

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a provider gateway client.
func NewClient(config types.ClientConfig) types.Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &client{
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *client) ListChats(ctx context.Context) ([]types.RawChat, error) {
	var chats []types.RawChat
	if err := c.getJSON(ctx, "/api/chats", &chats); err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, nil
}

func (c *client) GetMessages(ctx context.Context, chatID string, count int, direction string) ([]types.RawMessage, error) {
	path := fmt.Sprintf("/api/chats/%s/messages?count=%d&direction=%s",
		url.PathEscape(chatID), count, url.QueryEscape(direction))
	var messages []types.RawMessage
	if err := c.getJSON(ctx, path, &messages); err != nil {
		return nil, fmt.Errorf("failed to get messages for %s: %w", chatID, err)
	}
	return messages, nil
}

func (c *client) GetAllMessagesInChat(ctx context.Context, chatID string) ([]types.RawMessage, error) {
	path := fmt.Sprintf("/api/chats/%s/messages/all", url.PathEscape(chatID))
	var messages []types.RawMessage
	if err := c.getJSON(ctx, path, &messages); err != nil {
		return nil, fmt.Errorf("failed to get full history for %s: %w", chatID, err)
	}
	return messages, nil
}

func (c *client) DownloadMedia(ctx context.Context, messageID string) (string, error) {
	path := fmt.Sprintf("/api/messages/%s/media", url.PathEscape(messageID))
	var result struct {
		Data string `json:"data"`
	}
	if err := c.getJSON(ctx, path, &result); err != nil {
		return "", fmt.Errorf("failed to download media for %s: %w", messageID, err)
	}
	return result.Data, nil
}

func (c *client) SendText(ctx context.Context, chatID, text string) (json.RawMessage, error) {
	payload := map[string]interface{}{
		"chatId": chatID,
		"text":   text,
	}
	return c.postJSON(ctx, "/api/sendText", payload)
}

func (c *client) SendFile(ctx context.Context, chatID, filePath, filename, caption string) (json.RawMessage, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open media file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename == "" {
		filename = filepath.Base(filePath)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}

	writer.WriteField("chatId", chatID)
	if caption != "" {
		writer.WriteField("caption", caption)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sendFile", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

func (c *client) Logout(ctx context.Context) error {
	_, err := c.postJSON(ctx, "/api/logout", nil)
	return err
}

func (c *client) Close(ctx context.Context) error {
	_, err := c.postJSON(ctx, "/api/close", nil)
	return err
}

func (c *client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	data, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *client) postJSON(ctx context.Context, path string, payload interface{}) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *client) do(req *http.Request) (json.RawMessage, error) {
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr types.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return json.RawMessage(data), nil
}
