package validation

import (
	"fmt"
	"strconv"
	"strings"

	"whatsweb/internal/constants"
	apperrors "whatsweb/internal/errors"
)

const (
	maxChatIDLength = 256
	maxLimit        = 1000
)

// ValidateChatID checks a caller-supplied chat identifier. Chat ids are
// opaque provider strings, so validation is deliberately loose: it only
// rejects input that could never be a real id.
func ValidateChatID(chatID string) error {
	if chatID == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "chatId is required").
			WithUserMessage("chatId is required")
	}
	if len(chatID) > maxChatIDLength {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "chatId too long").
			WithUserMessage("chatId is not valid")
	}
	if strings.ContainsAny(chatID, "\x00\n\r") {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "chatId contains control characters").
			WithUserMessage("chatId is not valid")
	}
	return nil
}

// ParseLimit parses the limit query parameter, applying the default when
// absent and clamping to the allowed range.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return constants.DefaultMessageLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, fmt.Sprintf("invalid limit %q", raw)).
			WithUserMessage("limit must be a number")
	}
	if limit < 1 {
		return constants.DefaultMessageLimit, nil
	}
	if limit > maxLimit {
		return maxLimit, nil
	}
	return limit, nil
}

// ValidateSendInput checks the text send request fields.
func ValidateSendInput(chatID, message string) error {
	if chatID == "" || message == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "chatId and message are required").
			WithUserMessage("chatId and message are required")
	}
	return ValidateChatID(chatID)
}
