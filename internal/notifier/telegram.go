package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-approvals/internal/config"

	"go.uber.org/zap"
)

// Telegram posts events to a chat via the Bot API.
type Telegram struct {
	botToken string
	chatID   string
	client   *http.Client
	logger   *zap.Logger
}

// NewSink returns the Telegram sink when a bot token is configured,
// otherwise a Noop.
func NewSink(cfg *config.Config, logger *zap.Logger) Sink {
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == "" {
		logger.Info("Telegram notifier disabled, no bot token configured")
		return Noop{}
	}
	return &Telegram{
		botToken: cfg.TelegramBotToken,
		chatID:   cfg.TelegramChatID,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

func (t *Telegram) Notify(ctx context.Context, event Event) {
	text := fmt.Sprintf("[%s] %s #%d: %s", event.Kind, event.Module, event.TaskID, event.Message)

	body, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	})
	if err != nil {
		return
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.logger.Warn("Failed to build telegram request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("Telegram notify failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		t.logger.Warn("Telegram notify rejected", zap.Int("status", resp.StatusCode))
	}
}
