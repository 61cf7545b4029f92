package webclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"whatsweb/internal/models"

	"github.com/sirupsen/logrus"
)

// SyncState is the per-cycle state of a poller.
type SyncState string

const (
	StateIdle     SyncState = "idle"
	StateFetching SyncState = "fetching"
	StateRendered SyncState = "rendered"
	StateErrored  SyncState = "errored"
)

// ChatListSync polls the chat list on a fixed interval and replaces the
// rendered list wholesale on every successful fetch. Failures render an
// inline error and are retried on the next tick; chat lists are small
// and failures are expected to be transient blips, so there is no
// backoff and no breaker.
type ChatListSync struct {
	fetcher  ChatFetcher
	view     ChatListView
	interval time.Duration
	logger   *logrus.Logger

	mu      sync.Mutex
	state   SyncState
	chats   []models.Chat
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewChatListSync creates a chat list poller.
func NewChatListSync(fetcher ChatFetcher, view ChatListView, interval time.Duration, logger *logrus.Logger) *ChatListSync {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &ChatListSync{
		fetcher:  fetcher,
		view:     view,
		interval: interval,
		logger:   logger,
		state:    StateIdle,
	}
}

// Start begins polling: one immediate run, then one run per tick.
func (s *ChatListSync) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("chat list sync is already running")
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	s.view.RenderChatListLoading()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.Refresh(loopCtx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				s.Refresh(loopCtx)
			}
		}
	}()

	return nil
}

// Stop halts polling.
func (s *ChatListSync) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
}

// Refresh runs one fetch-and-render cycle. It is also called directly by
// the bootstrap monitor when a session connects.
func (s *ChatListSync) Refresh(ctx context.Context) {
	s.setState(StateFetching)

	chats, err := s.fetcher.ListChats(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.WithError(err).Warn("Chat list fetch failed, retrying next cycle")
		s.view.RenderChatListError("Could not load chats")
		s.setState(StateErrored)
		return
	}

	s.mu.Lock()
	s.chats = chats
	s.mu.Unlock()

	s.view.RenderChats(chats)
	s.setState(StateRendered)
}

// State returns the current cycle state.
func (s *ChatListSync) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Chats returns the last successfully fetched list.
func (s *ChatListSync) Chats() []models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chats
}

func (s *ChatListSync) setState(state SyncState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
