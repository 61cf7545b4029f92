package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"whatsweb/internal/constants"
	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/models"
	"whatsweb/internal/retry"
	"whatsweb/pkg/provider/types"

	"github.com/sirupsen/logrus"
)

// FetchWarning is returned in place of an error when every attempt came
// back empty. An empty chat is a valid terminal state.
const FetchWarning = "no messages in this chat, or they could not be loaded"

// errNoMessages drives the retry loop; it never escapes FetchMessages.
var errNoMessages = errors.New("no messages returned")

// MessageService retrieves, normalizes, and sends messages.
type MessageService interface {
	// FetchMessages returns up to limit messages for the chat in provider
	// order. The warning is non-empty when retrieval exhausted its
	// attempts without producing messages.
	FetchMessages(ctx context.Context, chatID string, limit int) ([]models.Message, string, error)
	SendText(ctx context.Context, chatID, text string) (json.RawMessage, error)
	SendFile(ctx context.Context, chatID, filePath, filename, caption string) (json.RawMessage, error)
}

type messageService struct {
	client           types.Client
	policy           retry.Policy
	mediaConcurrency int
	logger           *logrus.Logger
}

// NewMessageService creates a message service. The policy bounds the
// fetch retry loop; mediaConcurrency bounds the download fan-out.
func NewMessageService(client types.Client, policy retry.Policy, mediaConcurrency int, logger *logrus.Logger) MessageService {
	if policy.MaxAttempts <= 0 {
		policy = retry.DefaultPolicy()
	}
	if mediaConcurrency <= 0 {
		mediaConcurrency = constants.DefaultMediaDownloadConcurrency
	}
	return &messageService{
		client:           client,
		policy:           policy,
		mediaConcurrency: mediaConcurrency,
		logger:           logger,
	}
}

func (s *messageService) FetchMessages(ctx context.Context, chatID string, limit int) ([]models.Message, string, error) {
	if limit <= 0 {
		limit = constants.DefaultMessageLimit
	}

	var raw []types.RawMessage
	attempt := 0
	err := s.policy.Do(ctx, func() error {
		attempt++
		batch := s.fetchOnce(ctx, chatID, limit, attempt)
		if len(batch) == 0 {
			return errNoMessages
		}
		raw = batch
		return nil
	})
	if err != nil {
		if errors.Is(err, errNoMessages) {
			s.logger.WithFields(logrus.Fields{
				"chatId":   chatID,
				"attempts": attempt,
			}).Warn("No messages after all fetch attempts")
			return []models.Message{}, FetchWarning, nil
		}
		return nil, "", err
	}

	messages := make([]models.Message, len(raw))
	for i := range raw {
		messages[i] = NormalizeMessage(raw[i])
	}
	s.attachMedia(ctx, messages)

	return messages, "", nil
}

// fetchOnce runs one attempt: the bounded listing call first, then the
// full-history fallback. Provider failures are logged and treated as an
// empty result; they must not abort the retry loop.
func (s *messageService) fetchOnce(ctx context.Context, chatID string, limit, attempt int) []types.RawMessage {
	log := s.logger.WithFields(logrus.Fields{
		"chatId":  chatID,
		"attempt": attempt,
	})

	batch, err := s.client.GetMessages(ctx, chatID, limit, "before")
	if err != nil {
		log.WithError(err).Warn("Primary message listing failed")
		batch = nil
	}
	if len(batch) > 0 {
		return batch
	}

	all, err := s.client.GetAllMessagesInChat(ctx, chatID)
	if err != nil {
		log.WithError(err).Warn("Full history fallback failed")
		return nil
	}
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	if len(all) > 0 {
		log.WithField("count", len(all)).Debug("Fetched messages via full history fallback")
	}
	return all
}

// attachMedia downloads inline payloads for media-bearing messages with
// bounded fan-out. A failed download degrades that one message to nil
// media; the rest of the batch is unaffected.
func (s *messageService) attachMedia(ctx context.Context, messages []models.Message) {
	sem := make(chan struct{}, s.mediaConcurrency)
	var wg sync.WaitGroup

	for i := range messages {
		if !messages[i].IsMedia {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(msg *models.Message) {
			defer wg.Done()
			defer func() { <-sem }()

			data, err := s.client.DownloadMedia(ctx, msg.Identity())
			if err != nil {
				s.logger.WithError(err).WithField("messageId", msg.Identity()).
					Warn("Media download failed, message degrades to text")
				return
			}
			msg.MediaData = data
		}(&messages[i])
	}

	wg.Wait()
}

func (s *messageService) SendText(ctx context.Context, chatID, text string) (json.RawMessage, error) {
	result, err := s.client.SendText(ctx, chatID, text)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeProviderAPI, "failed to send message").
			WithUserMessage("Message could not be sent")
	}
	s.logger.WithField("chatId", chatID).Info("Message sent")
	return result, nil
}

func (s *messageService) SendFile(ctx context.Context, chatID, filePath, filename, caption string) (json.RawMessage, error) {
	result, err := s.client.SendFile(ctx, chatID, filePath, filename, caption)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeProviderAPI, "failed to send file").
			WithUserMessage("File could not be sent")
	}
	s.logger.WithFields(logrus.Fields{
		"chatId":   chatID,
		"filename": filename,
	}).Info("File sent")
	return result, nil
}
