package webclient

import (
	"context"
	"sync"

	"whatsweb/internal/models"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type fakeChatFetcher struct {
	mu    sync.Mutex
	chats []models.Chat
	err   error
	calls int
}

func (f *fakeChatFetcher) ListChats(ctx context.Context) ([]models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.chats, f.err
}

func (f *fakeChatFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeChatListView struct {
	mu       sync.Mutex
	loading  int
	rendered [][]models.Chat
	errors   []string
}

func (v *fakeChatListView) RenderChatListLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading++
}

func (v *fakeChatListView) RenderChats(chats []models.Chat) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rendered = append(v.rendered, chats)
}

func (v *fakeChatListView) RenderChatListError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, message)
}

func (v *fakeChatListView) renderCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.rendered)
}

type fakeMessageFetcher struct {
	mu       sync.Mutex
	messages []models.Message
	warning  string
	err      error
	calls    int
}

func (f *fakeMessageFetcher) FetchMessages(ctx context.Context, chatID string, limit int) ([]models.Message, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.messages, f.warning, f.err
}

type fakeMessageView struct {
	mu            sync.Mutex
	viewport      Viewport
	loading       int
	rendered      [][]RenderedMessage
	empties       int
	errors        []string
	scrollTops    []int
	scrolledToEnd int
}

func (v *fakeMessageView) RenderLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading++
}

func (v *fakeMessageView) RenderMessages(messages []RenderedMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rendered = append(v.rendered, messages)
}

func (v *fakeMessageView) RenderEmpty() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.empties++
}

func (v *fakeMessageView) RenderMessagesError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, message)
}

func (v *fakeMessageView) Viewport() Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewport
}

func (v *fakeMessageView) SetScrollTop(px int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollTops = append(v.scrollTops, px)
}

func (v *fakeMessageView) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolledToEnd++
}

func (v *fakeMessageView) renderCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.rendered)
}

type fakeAuthFetcher struct {
	mu     sync.Mutex
	status models.QRResponse
	err    error
}

func (f *fakeAuthFetcher) FetchAuthStatus(ctx context.Context) (models.QRResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.err
}

func (f *fakeAuthFetcher) set(status models.QRResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.err = err
}

type fakeOverlayView struct {
	mu     sync.Mutex
	shown  []string
	hidden int
}

func (v *fakeOverlayView) ShowQR(imageData string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown = append(v.shown, imageData)
}

func (v *fakeOverlayView) HideQR() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hidden++
}
