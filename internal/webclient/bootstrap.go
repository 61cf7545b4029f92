package webclient

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SessionBootstrapMonitor polls the auth endpoint and drives the QR
// overlay. While the server reports a pairing code the overlay shows it,
// refreshed on every poll so a rotated code replaces a stale one. When
// the code disappears the overlay is dismissed, and if the session is
// connected the chat list is reloaded exactly once.
type SessionBootstrapMonitor struct {
	fetcher  AuthFetcher
	overlay  OverlayView
	reload   func(ctx context.Context)
	interval time.Duration
	logger   *logrus.Logger

	mu      sync.Mutex
	showing bool
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewSessionBootstrapMonitor creates the QR overlay poller. reload is
// invoked once per completed pairing, never per poll.
func NewSessionBootstrapMonitor(fetcher AuthFetcher, overlay OverlayView, reload func(ctx context.Context), interval time.Duration, logger *logrus.Logger) *SessionBootstrapMonitor {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &SessionBootstrapMonitor{
		fetcher:  fetcher,
		overlay:  overlay,
		reload:   reload,
		interval: interval,
		logger:   logger,
	}
}

// Start begins polling the auth endpoint.
func (m *SessionBootstrapMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("bootstrap monitor is already running")
	}
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		m.Poll(loopCtx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				m.Poll(loopCtx)
			}
		}
	}()

	return nil
}

// Stop halts polling.
func (m *SessionBootstrapMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// Poll runs one auth check cycle.
func (m *SessionBootstrapMonitor) Poll(ctx context.Context) {
	status, err := m.fetcher.FetchAuthStatus(ctx)
	if err != nil {
		// Unauthorized means the session layer has not come up yet.
		// Anything else is transient; the next poll retries.
		if !errors.Is(err, ErrUnauthorized) && ctx.Err() == nil {
			m.logger.WithError(err).Debug("Auth status poll failed")
		}
		return
	}

	if status.QR != nil {
		m.overlay.ShowQR(*status.QR)
		m.mu.Lock()
		m.showing = true
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	wasShowing := m.showing
	m.showing = false
	m.mu.Unlock()

	if wasShowing {
		m.overlay.HideQR()
		if status.IsConnected && m.reload != nil {
			m.logger.Info("Session paired, reloading chat list")
			m.reload(ctx)
		}
	}
}

// Showing reports whether the overlay is currently visible.
func (m *SessionBootstrapMonitor) Showing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.showing
}
