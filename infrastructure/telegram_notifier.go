package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf16"

	"github.com/tidwall/gjson"
)

const (
	DefaultTelegramAPIURL = "https://api.telegram.org"

	// telegramMessageLimit is counted in UTF-16 code units
	telegramMessageLimit = 4096
)

// TelegramNotifier sends messages through the Telegram Bot API
type TelegramNotifier struct {
	apiURL string
	token  string
	chatID string
	client *http.Client
}

// NewTelegramNotifier creates a notifier for one chat
func NewTelegramNotifier(apiURL, botToken, chatID string, timeout time.Duration) *TelegramNotifier {
	if apiURL == "" {
		apiURL = DefaultTelegramAPIURL
	}
	return &TelegramNotifier{
		apiURL: apiURL,
		token:  botToken,
		chatID: chatID,
		client: newHTTPClient(timeout),
	}
}

type telegramSendMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Notify implements service.Notifier
func (n *TelegramNotifier) Notify(ctx context.Context, message string) error {
	payload, err := json.Marshal(telegramSendMessage{
		ChatID: n.chatID,
		Text:   truncateUTF16(message, telegramMessageLimit),
	})
	if err != nil {
		return fmt.Errorf("failed to encode telegram message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		// The request URL carries the bot token
		return fmt.Errorf("failed to send telegram message: %w", redactURLError(err))
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK || !gjson.GetBytes(body, "ok").Bool() {
		return fmt.Errorf("telegram rejected message: status %d: %s",
			resp.StatusCode, gjson.GetBytes(body, "description").String())
	}
	return nil
}

// redactURLError drops the request URL from a transport error
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// truncateUTF16 cuts message to at most limit UTF-16 code units, ending
// with an ellipsis when anything was dropped. Emoji outside the BMP take
// two units each.
func truncateUTF16(message string, limit int) string {
	if len(utf16.Encode([]rune(message))) <= limit {
		return message
	}
	units := 0
	for i, r := range message {
		n := utf16.RuneLen(r)
		if units+n > limit-1 {
			return message[:i] + "…"
		}
		units += n
	}
	return message
}
