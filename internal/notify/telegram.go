package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// defaultBaseURL is the Telegram Bot API endpoint.
	defaultBaseURL = "https://api.telegram.org"

	// defaultSendTimeout bounds one delivery attempt so a slow transport
	// cannot stall callers that wait for the result.
	defaultSendTimeout = 10 * time.Second

	// maxErrorBodyBytes caps how much of an error response is read back.
	maxErrorBodyBytes = 4 << 10
)

// Notifier delivers a text message to the configured destination.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Telegram sends messages through the Telegram Bot API.
type Telegram struct {
	// token is the bot token.
	token string
	// chatID is the destination chat identifier.
	chatID string
	// baseURL is the API endpoint, overridable for tests.
	baseURL string
	// client performs the HTTP calls.
	client *http.Client
}

// TelegramOption customizes a Telegram notifier.
type TelegramOption func(*Telegram)

// WithBaseURL overrides the API endpoint. Used in tests.
func WithBaseURL(baseURL string) TelegramOption {
	return func(t *Telegram) {
		t.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) TelegramOption {
	return func(t *Telegram) {
		t.client = client
	}
}

// NewTelegram creates a notifier for the given bot token and chat.
func NewTelegram(token, chatID string, options ...TelegramOption) *Telegram {
	t := &Telegram{
		token:   token,
		chatID:  chatID,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: defaultSendTimeout,
		},
	}

	for _, option := range options {
		option(t)
	}

	return t
}

// sendMessageRequest is the JSON body of a sendMessage call.
type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Send posts the text to the configured chat.
func (t *Telegram) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID: t.chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")

	response, err := t.client.Do(request)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))

		return fmt.Errorf("send notification: unexpected status %d: %s",
			response.StatusCode, bytes.TrimSpace(detail))
	}

	return nil
}

// Nop is a Notifier that silently discards every message.
type Nop struct{}

// Send discards the message.
func (Nop) Send(context.Context, string) error {
	return nil
}
