package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"whatsweb/internal/models"
	"whatsweb/internal/retry"
	"whatsweb/pkg/provider/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, Delay: time.Millisecond}
}

func rawMsg(id string, body string) types.RawMessage {
	return types.RawMessage{
		ID:   types.FlexibleID{Serialized: id},
		Body: body,
		Type: "chat",
		T:    1700000000,
	}
}

func TestFetchMessagesFirstAttemptSucceeds(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	client.On("GetMessages", mock.Anything, "123@c.us", 100, "before").
		Return([]types.RawMessage{rawMsg("m1", "hello"), rawMsg("m2", "world")}, nil).Once()

	messages, warning, err := svc.FetchMessages(context.Background(), "123@c.us", 100)
	require.NoError(t, err)
	assert.Empty(t, warning)
	require.Len(t, messages, 2)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "hello", messages[0].Body)

	client.AssertExpectations(t)
	client.AssertNotCalled(t, "GetAllMessagesInChat", mock.Anything, mock.Anything)
}

func TestFetchMessagesFallsBackToFullHistory(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	client.On("GetMessages", mock.Anything, "123@c.us", 100, "before").
		Return([]types.RawMessage{}, nil).Once()
	client.On("GetAllMessagesInChat", mock.Anything, "123@c.us").
		Return([]types.RawMessage{rawMsg("m1", "old"), rawMsg("m2", "new")}, nil).Once()

	messages, warning, err := svc.FetchMessages(context.Background(), "123@c.us", 100)
	require.NoError(t, err)
	assert.Empty(t, warning)
	require.Len(t, messages, 2)

	client.AssertExpectations(t)
}

func TestFetchMessagesFallbackTrimsToLimit(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	all := make([]types.RawMessage, 5)
	for i := range all {
		all[i] = rawMsg(fmt.Sprintf("m%d", i), "body")
	}

	client.On("GetMessages", mock.Anything, "123@c.us", 3, "before").
		Return([]types.RawMessage{}, nil).Once()
	client.On("GetAllMessagesInChat", mock.Anything, "123@c.us").
		Return(all, nil).Once()

	messages, _, err := svc.FetchMessages(context.Background(), "123@c.us", 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	// Only the newest messages survive the trim.
	assert.Equal(t, "m2", messages[0].ID)
	assert.Equal(t, "m4", messages[2].ID)
}

func TestFetchMessagesSucceedsOnThirdAttempt(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	client.On("GetMessages", mock.Anything, "123@c.us", 100, "before").
		Return([]types.RawMessage{}, nil).Twice()
	client.On("GetAllMessagesInChat", mock.Anything, "123@c.us").
		Return([]types.RawMessage{}, nil).Twice()
	client.On("GetMessages", mock.Anything, "123@c.us", 100, "before").
		Return([]types.RawMessage{rawMsg("m1", "late")}, nil).Once()

	messages, warning, err := svc.FetchMessages(context.Background(), "123@c.us", 100)
	require.NoError(t, err)
	assert.Empty(t, warning)
	require.Len(t, messages, 1)
	assert.Equal(t, "late", messages[0].Body)

	client.AssertExpectations(t)
}

func TestFetchMessagesExhaustedReturnsWarning(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	client.On("GetMessages", mock.Anything, "123@c.us", 100, "before").
		Return([]types.RawMessage{}, nil).Times(3)
	client.On("GetAllMessagesInChat", mock.Anything, "123@c.us").
		Return([]types.RawMessage{}, nil).Times(3)

	messages, warning, err := svc.FetchMessages(context.Background(), "123@c.us", 100)
	require.NoError(t, err)
	assert.Equal(t, FetchWarning, warning)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)

	client.AssertExpectations(t)
}

func TestFetchMessagesProviderErrorCountsAsEmptyAttempt(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	client.On("GetMessages", mock.Anything, "123@c.us", 100, "before").
		Return(nil, fmt.Errorf("gateway down")).Times(3)
	client.On("GetAllMessagesInChat", mock.Anything, "123@c.us").
		Return(nil, fmt.Errorf("gateway down")).Times(3)

	messages, warning, err := svc.FetchMessages(context.Background(), "123@c.us", 100)
	require.NoError(t, err)
	assert.Equal(t, FetchWarning, warning)
	assert.Empty(t, messages)

	client.AssertExpectations(t)
}

func TestFetchMessagesDownloadsMediaPayloads(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	media := rawMsg("m1", "")
	media.Type = "image"
	text := rawMsg("m2", "plain")

	client.On("GetMessages", mock.Anything, "123@c.us", 100, "before").
		Return([]types.RawMessage{media, text}, nil).Once()
	client.On("DownloadMedia", mock.Anything, "m1").
		Return("data:image/jpeg;base64,abc", nil).Once()

	messages, _, err := svc.FetchMessages(context.Background(), "123@c.us", 100)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "data:image/jpeg;base64,abc", messages[0].MediaData)
	assert.True(t, messages[0].IsMedia)
	assert.Empty(t, messages[1].MediaData)

	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "DownloadMedia", 1)
}

func TestFetchMessagesMediaFailureDegradesOneMessage(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	broken := rawMsg("m1", "caption text")
	broken.Type = "video"
	fine := rawMsg("m2", "")
	fine.Type = "image"

	client.On("GetMessages", mock.Anything, "123@c.us", 100, "before").
		Return([]types.RawMessage{broken, fine}, nil).Once()
	client.On("DownloadMedia", mock.Anything, "m1").
		Return("", fmt.Errorf("download failed")).Once()
	client.On("DownloadMedia", mock.Anything, "m2").
		Return("data:image/png;base64,ok", nil).Once()

	messages, _, err := svc.FetchMessages(context.Background(), "123@c.us", 100)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Empty(t, messages[0].MediaData)
	assert.Equal(t, "data:image/png;base64,ok", messages[1].MediaData)
}

func TestSendText(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	client.On("SendText", mock.Anything, "123@c.us", "hi").
		Return(jsonRaw(`{"id":"m9"}`), nil).Once()

	result, err := svc.SendText(context.Background(), "123@c.us", "hi")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"m9"}`, string(result))
}

func TestSendTextWrapsProviderError(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	client.On("SendText", mock.Anything, "123@c.us", "hi").
		Return(nil, fmt.Errorf("gateway down")).Once()

	_, err := svc.SendText(context.Background(), "123@c.us", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send message")
}

func TestSendFile(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	client.On("SendFile", mock.Anything, "123@c.us", "/tmp/u.pdf", "report.pdf", "here").
		Return(jsonRaw(`{"id":"m10"}`), nil).Once()

	result, err := svc.SendFile(context.Background(), "123@c.us", "/tmp/u.pdf", "report.pdf", "here")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"m10"}`, string(result))
}

func TestFetchMessagesDefaultsLimit(t *testing.T) {
	client := new(mockProviderClient)
	svc := NewMessageService(client, fastPolicy(), 2, testLogger())

	client.On("GetMessages", mock.Anything, "123@c.us", 100, "before").
		Return([]types.RawMessage{rawMsg("m1", "x")}, nil).Once()

	_, _, err := svc.FetchMessages(context.Background(), "123@c.us", 0)
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestMessageIdentityFallsBackToTimestamp(t *testing.T) {
	msg := models.Message{Timestamp: 1700000001}
	assert.Equal(t, "1700000001", msg.Identity())

	msg.ID = "real-id"
	assert.Equal(t, "real-id", msg.Identity())
}
