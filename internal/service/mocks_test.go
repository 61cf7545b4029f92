package service

import (
	"context"
	"encoding/json"

	"whatsweb/pkg/provider/types"

	"github.com/stretchr/testify/mock"
)

type mockProviderClient struct {
	mock.Mock
}

func (m *mockProviderClient) ListChats(ctx context.Context) ([]types.RawChat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RawChat), args.Error(1)
}

func (m *mockProviderClient) GetMessages(ctx context.Context, chatID string, count int, direction string) ([]types.RawMessage, error) {
	args := m.Called(ctx, chatID, count, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RawMessage), args.Error(1)
}

func (m *mockProviderClient) GetAllMessagesInChat(ctx context.Context, chatID string) ([]types.RawMessage, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RawMessage), args.Error(1)
}

func (m *mockProviderClient) DownloadMedia(ctx context.Context, messageID string) (string, error) {
	args := m.Called(ctx, messageID)
	return args.String(0), args.Error(1)
}

func (m *mockProviderClient) SendText(ctx context.Context, chatID, text string) (json.RawMessage, error) {
	args := m.Called(ctx, chatID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockProviderClient) SendFile(ctx context.Context, chatID, filePath, filename, caption string) (json.RawMessage, error) {
	args := m.Called(ctx, chatID, filePath, filename, caption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockProviderClient) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockProviderClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func jsonRaw(s string) json.RawMessage {
	return json.RawMessage(s)
}
