package service

import (
	"context"
	"sort"

	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/models"
	"whatsweb/pkg/provider/types"

	"github.com/sirupsen/logrus"
)

// ChatService lists the account's chats.
type ChatService interface {
	ListChats(ctx context.Context) ([]models.Chat, error)
}

type chatService struct {
	client types.Client
	logger *logrus.Logger
}

// NewChatService creates a chat listing service backed by the shared
// provider client.
func NewChatService(client types.Client, logger *logrus.Logger) ChatService {
	return &chatService{
		client: client,
		logger: logger,
	}
}

// ListChats returns the full chat list, rebuilt from the latest provider
// snapshot and sorted by last activity, newest first.
func (s *chatService) ListChats(ctx context.Context) ([]models.Chat, error) {
	raw, err := s.client.ListChats(ctx)
	if err != nil {
		return nil, apperrors.WrapRetryable(err, apperrors.ErrCodeProviderAPI, "failed to list chats").
			WithUserMessage("Could not load chats")
	}

	chats := make([]models.Chat, 0, len(raw))
	for _, rc := range raw {
		chats = append(chats, NormalizeChat(rc))
	}

	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].Timestamp > chats[j].Timestamp
	})

	s.logger.WithField("count", len(chats)).Debug("Retrieved chat list")
	return chats, nil
}
