package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"whatsweb/pkg/provider/types"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

const reconnectDelay = 5 * time.Second

// eventStream consumes the provider gateway's websocket event feed and
// dispatches frames to registered handlers. It owns its connection and
// reconnects until Stop or context cancellation.
type eventStream struct {
	wsURL    string
	apiKey   string
	logger   *logrus.Logger
	handlers map[types.EventType]types.EventHandler
	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewEventStream creates an event stream for the gateway at baseURL.
func NewEventStream(baseURL, apiKey string, logger *logrus.Logger) types.EventStream {
	wsURL := strings.Replace(baseURL, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	return &eventStream{
		wsURL:    wsURL + "/ws/events",
		apiKey:   apiKey,
		logger:   logger,
		handlers: make(map[types.EventType]types.EventHandler),
	}
}

func (s *eventStream) RegisterEventHandler(eventType types.EventType, handler types.EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[eventType] = handler
}

// Start launches the read loop. It returns an error only if the stream
// is already running; connection failures are retried in the background.
func (s *eventStream) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("event stream is already running")
	}

	streamCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.readLoop(streamCtx)

	s.logger.WithField("url", s.wsURL).Info("Provider event stream started")
	return nil
}

func (s *eventStream) Stop() {
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
	s.logger.Info("Provider event stream stopped")
}

func (s *eventStream) readLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		if err := s.connectAndRead(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.WithError(err).Warn("Event stream disconnected, reconnecting")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (s *eventStream) connectAndRead(ctx context.Context) error {
	opts := &websocket.DialOptions{}
	if s.apiKey != "" {
		opts.HTTPHeader = http.Header{"X-Api-Key": []string{s.apiKey}}
	}

	conn, _, err := websocket.Dial(ctx, s.wsURL, opts)
	if err != nil {
		return fmt.Errorf("failed to dial event stream: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Media payloads ride the message events; allow large frames.
	conn.SetReadLimit(32 << 20)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("failed to read event frame: %w", err)
		}
		s.dispatch(ctx, data)
	}
}

func (s *eventStream) dispatch(ctx context.Context, data []byte) {
	var event types.Event
	if err := json.Unmarshal(data, &event); err != nil {
		s.logger.WithError(err).Warn("Discarding malformed event frame")
		return
	}

	s.mu.RLock()
	handler, ok := s.handlers[event.Event]
	s.mu.RUnlock()

	if !ok {
		s.logger.WithField("event", event.Event).Debug("No handler registered for event")
		return
	}

	if err := handler(ctx, event.Payload); err != nil {
		s.logger.WithError(err).WithField("event", event.Event).Error("Event handler failed")
	}
}
