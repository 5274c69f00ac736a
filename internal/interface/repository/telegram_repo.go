package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier delivers price alerts through the Telegram Bot API
type TelegramNotifier struct {
	logger  logger.Logger
	baseURL string
	token   string
	client  *http.Client
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(token string, log logger.Logger) repository.Notifier {
	return &TelegramNotifier{
		logger:  log,
		baseURL: telegramAPIBase,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send posts a sendMessage call for the given chat
func (n *TelegramNotifier) Send(ctx context.Context, userID int64, text string) error {
	msg := sendMessageRequest{
		ChatID:    userID,
		Text:      text,
		ParseMode: "HTML",
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var response struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !response.OK {
		return fmt.Errorf("telegram returned status %d: %s", resp.StatusCode, response.Description)
	}

	n.logger.Info("Notification delivered", "chatId", userID)
	return nil
}
