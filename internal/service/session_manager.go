package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"time"

	apperrors "whatsweb/internal/errors"
	"whatsweb/pkg/provider/types"

	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
)

// SessionState is the process-wide authentication state. Exactly one
// value is active at any time; a QR overlay and a connected view never
// coexist.
type SessionState string

const (
	SessionDisconnected SessionState = "disconnected"
	SessionAwaitingScan SessionState = "awaiting_scan"
	SessionConnected    SessionState = "connected"
)

// connectedStatuses are the provider status values that mean the scan
// succeeded and the session is live.
var connectedStatuses = map[string]struct{}{
	"isLogged":      {},
	"qrReadSuccess": {},
	"inChat":        {},
}

const qrImageSize = 256

// SessionManager owns the session state and the active QR code. It is
// the single writer: transitions happen only through provider events and
// the explicit logout action.
type SessionManager struct {
	client       types.Client
	logger       *logrus.Logger
	restart      func(ctx context.Context)
	restartDelay time.Duration

	mu    sync.RWMutex
	state SessionState
	qr    string
}

// NewSessionManager creates a session manager starting in Disconnected.
// The restart hook reinitializes the provider session after a logout.
func NewSessionManager(client types.Client, logger *logrus.Logger, restart func(ctx context.Context), restartDelay time.Duration) *SessionManager {
	if restartDelay <= 0 {
		restartDelay = time.Second
	}
	return &SessionManager{
		client:       client,
		logger:       logger,
		restart:      restart,
		restartDelay: restartDelay,
		state:        SessionDisconnected,
	}
}

// State returns the current session state.
func (m *SessionManager) State() SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsConnected reports whether the provider session is live.
func (m *SessionManager) IsConnected() bool {
	return m.State() == SessionConnected
}

// Snapshot returns the active QR image (nil when none) and the connected
// flag, as served by the auth endpoint.
func (m *SessionManager) Snapshot() (*string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.qr == "" {
		return nil, m.state == SessionConnected
	}
	qr := m.qr
	return &qr, false
}

// MarkConnected records a live session established outside the event
// flow, e.g. a restored session that never showed a QR.
func (m *SessionManager) MarkConnected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = SessionConnected
	m.qr = ""
}

// HandleQREvent stores a fresh pairing code and enters AwaitingScan. The
// payload may carry a rendered PNG or just the raw code; raw codes are
// rendered here so the auth endpoint always serves an image.
func (m *SessionManager) HandleQREvent(ctx context.Context, payload []byte) error {
	var qr types.QRPayload
	if err := json.Unmarshal(payload, &qr); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeEventStream, "malformed qr event")
	}

	image := qr.Base64
	if image == "" && qr.Code != "" {
		png, err := qrcode.Encode(qr.Code, qrcode.Medium, qrImageSize)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeSessionState, "failed to render pairing code")
		}
		image = base64.StdEncoding.EncodeToString(png)
	}
	if image == "" {
		return apperrors.New(apperrors.ErrCodeEventStream, "qr event carried no code")
	}
	if !strings.HasPrefix(image, "data:") {
		image = "data:image/png;base64," + image
	}

	m.mu.Lock()
	previous := m.state
	m.state = SessionAwaitingScan
	m.qr = image
	m.mu.Unlock()

	if previous != SessionAwaitingScan {
		m.logger.WithField("previous", previous).Info("Pairing code received, awaiting scan")
	}
	return nil
}

// HandleStatusEvent applies a provider status transition. Connected
// statuses clear the QR; a closed browser drops back to Disconnected.
func (m *SessionManager) HandleStatusEvent(ctx context.Context, payload []byte) error {
	var status types.StatusPayload
	if err := json.Unmarshal(payload, &status); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeEventStream, "malformed status event")
	}

	m.logger.WithField("status", status.Status).Debug("Session status event")

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := connectedStatuses[status.Status]; ok {
		if m.state != SessionConnected {
			m.logger.Info("Provider session connected")
		}
		m.state = SessionConnected
		m.qr = ""
		return nil
	}
	if status.Status == "browserClose" {
		m.logger.Warn("Provider session closed")
		m.state = SessionDisconnected
		m.qr = ""
	}
	return nil
}

// HandleMessageEvent logs inbound message notifications. Status
// broadcasts are ignored.
func (m *SessionManager) HandleMessageEvent(ctx context.Context, payload []byte) error {
	var msg types.RawMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeEventStream, "malformed message event")
	}
	if msg.From == "status@broadcast" {
		return nil
	}
	m.logger.WithFields(logrus.Fields{
		"from":  msg.From,
		"type":  msg.Type,
		"media": IsMediaBearing(msg),
	}).Debug("Inbound message event")
	return nil
}

// HandleAckEvent logs delivery acknowledgments.
func (m *SessionManager) HandleAckEvent(ctx context.Context, payload []byte) error {
	var ack types.AckPayload
	if err := json.Unmarshal(payload, &ack); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeEventStream, "malformed ack event")
	}
	m.logger.WithFields(logrus.Fields{
		"messageId": ack.ID.String(),
		"ack":       ack.Ack,
	}).Debug("Delivery ack")
	return nil
}

// Logout tears down the provider session and schedules a restart so a
// fresh QR appears shortly. The restart runs asynchronously; the caller
// gets an immediate answer.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.logger.Info("Provider logout requested")

	if err := m.client.Logout(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeProviderAPI, "logout failed").
			WithUserMessage("Logout failed, please try again")
	}
	if err := m.client.Close(ctx); err != nil {
		m.logger.WithError(err).Warn("Provider close failed after logout")
	}

	m.mu.Lock()
	m.state = SessionDisconnected
	m.qr = ""
	m.mu.Unlock()

	if m.restart != nil {
		delay := m.restartDelay
		time.AfterFunc(delay, func() {
			m.logger.Info("Restarting provider session after logout")
			m.restart(context.Background())
		})
	}
	return nil
}
