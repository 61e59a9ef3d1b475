package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// TelegramNotifier publishes and retracts messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	APIBase  string // overridable for tests
	Client   *http.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  "https://api.telegram.org",
		Client: &http.Client{
			Timeout:   20 * time.Second,
			Transport: transport,
		},
	}
}

// tgResponse is the common Telegram API envelope.
type tgResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int `json:"message_id"`
	} `json:"result"`
}

func (t *TelegramNotifier) call(ctx context.Context, method string, params url.Values) (*tgResponse, error) {
	apiURL := fmt.Sprintf("%s/bot%s/%s", t.APIBase, t.BotToken, method)
	params.Set("chat_id", t.ChatID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = params.Encode()

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", method, err)
	}
	var parsed tgResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", method, err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("%s: telegram API error: %s", method, parsed.Description)
	}
	return &parsed, nil
}

// Publish sends an HTML-formatted message with link previews disabled and
// returns the new message id.
func (t *TelegramNotifier) Publish(ctx context.Context, text string) (int, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("parse_mode", "HTML")
	params.Set("disable_web_page_preview", "true")
	resp, err := t.call(ctx, "sendMessage", params)
	if err != nil {
		return 0, err
	}
	return resp.Result.MessageID, nil
}

// PublishWithRetry publishes with exponential backoff.
func (t *TelegramNotifier) PublishWithRetry(ctx context.Context, text string, maxRetries int) (int, error) {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		id, err := t.Publish(ctx, text)
		if err == nil {
			return id, nil
		}
		lastErr = err
		backoff := time.Duration(1<<uint(i)) * time.Second
		log.Printf("[WARN] Telegram publish failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return 0, fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// Pin pins a message without notifying the chat.
func (t *TelegramNotifier) Pin(ctx context.Context, messageID int) error {
	params := url.Values{}
	params.Set("message_id", strconv.Itoa(messageID))
	params.Set("disable_notification", "true")
	_, err := t.call(ctx, "pinChatMessage", params)
	return err
}

// UnpinAll removes every pinned message in the chat.
func (t *TelegramNotifier) UnpinAll(ctx context.Context) error {
	_, err := t.call(ctx, "unpinAllChatMessages", url.Values{})
	return err
}

// Delete removes a message.
func (t *TelegramNotifier) Delete(ctx context.Context, messageID int) error {
	params := url.Values{}
	params.Set("message_id", strconv.Itoa(messageID))
	_, err := t.call(ctx, "deleteMessage", params)
	return err
}
