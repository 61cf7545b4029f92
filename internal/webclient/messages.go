package webclient

import (
	"context"
	"sync"
	"time"

	"whatsweb/internal/classify"
	"whatsweb/internal/models"

	"github.com/sirupsen/logrus"
)

// MessageSync keeps the conversation pane of one active chat current.
// Opening a chat performs a loud load (loading indicator, errors shown),
// then a silent refresh runs on every tick: identical results are
// suppressed entirely so the view is never repainted for nothing.
type MessageSync struct {
	fetcher  MessageFetcher
	view     MessageView
	interval time.Duration
	limit    int
	logger   *logrus.Logger

	mu         sync.Mutex
	activeChat string
	previous   []models.Message
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewMessageSync creates a message poller for the conversation pane.
func NewMessageSync(fetcher MessageFetcher, view MessageView, interval time.Duration, limit int, logger *logrus.Logger) *MessageSync {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if limit <= 0 {
		limit = 100
	}
	return &MessageSync{
		fetcher:  fetcher,
		view:     view,
		interval: interval,
		limit:    limit,
		logger:   logger,
	}
}

// Open switches the active chat. Any previous chat's refresh loop is
// cancelled first so a slow in-flight fetch for the old chat can never
// paint over the new one.
func (s *MessageSync) Open(ctx context.Context, chatID string) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.activeChat = chatID
	s.previous = nil
	s.mu.Unlock()

	s.wg.Wait()

	s.view.RenderLoading()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.load(loopCtx, chatID, false)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				s.load(loopCtx, chatID, true)
			}
		}
	}()
}

// Close stops refreshing the active chat.
func (s *MessageSync) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.activeChat = ""
	s.previous = nil
	s.mu.Unlock()

	s.wg.Wait()
}

// ActiveChat returns the chat currently being synced, or "".
func (s *MessageSync) ActiveChat() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeChat
}

func (s *MessageSync) load(ctx context.Context, chatID string, silent bool) {
	messages, warning, err := s.fetcher.FetchMessages(ctx, chatID, s.limit)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.WithError(err).WithField("chat_id", chatID).Warn("Message fetch failed")
		if !silent {
			s.view.RenderMessagesError("Could not load messages")
		}
		return
	}

	s.mu.Lock()
	if s.activeChat != chatID {
		s.mu.Unlock()
		return
	}
	prev := s.previous
	s.mu.Unlock()

	if warning != "" {
		s.logger.WithField("chat_id", chatID).Debug(warning)
	}

	if len(messages) == 0 {
		if silent && len(prev) == 0 {
			return
		}
		s.setPrevious(chatID, messages)
		s.view.RenderEmpty()
		return
	}

	if silent && unchanged(prev, messages) {
		return
	}

	s.setPrevious(chatID, messages)
	s.render(messages)
}

func (s *MessageSync) setPrevious(chatID string, messages []models.Message) {
	s.mu.Lock()
	if s.activeChat == chatID {
		s.previous = messages
	}
	s.mu.Unlock()
}

// render paints the message list, preserving reading position. A view
// that was near the bottom follows new messages; a view scrolled up
// keeps its exact offset.
func (s *MessageSync) render(messages []models.Message) {
	viewport := s.view.Viewport()

	rendered := make([]RenderedMessage, 0, len(messages))
	for i := range messages {
		rendered = append(rendered, RenderedMessage{
			Message: messages[i],
			Intent:  classify.Classify(&messages[i]),
		})
	}
	s.view.RenderMessages(rendered)

	if viewport.NearBottom() {
		s.view.ScrollToBottom()
	} else {
		s.view.SetScrollTop(viewport.ScrollTop)
	}
}

// unchanged reports whether two fetch results describe the same
// conversation state: same length and same identity for the newest
// message. Mid-list edits are not detected; the newest message moving
// is the signal that matters.
func unchanged(prev, next []models.Message) bool {
	if len(prev) != len(next) {
		return false
	}
	if len(prev) == 0 {
		return true
	}
	last := len(prev) - 1
	return prev[last].Identity() == next[last].Identity()
}
