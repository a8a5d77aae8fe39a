// internal/common/telegram/client.go
package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the subset of *tgbotapi.BotAPI used to deliver notifications.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Client struct {
	api Sender
}

// NewClient authenticates the bot token against the Telegram API.
func NewClient(token string) (*Client, error) {
	return NewClientWithEndpoint(token, tgbotapi.APIEndpoint)
}

// NewClientWithEndpoint is NewClient against a custom API endpoint
// (format "https://host/bot%s/%s").
func NewClientWithEndpoint(token, endpoint string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Client{api: api}, nil
}

// NewClientWithSender wraps an existing sender.
func NewClientWithSender(s Sender) *Client {
	return &Client{api: s}
}

// SendText posts a plain message to chatID (numeric, group ids are negative)
// and returns the Telegram message id.
func (c *Client) SendText(chatID, text string) (string, error) {
	id, err := ParseChatID(chatID)
	if err != nil {
		return "", err
	}
	msg, err := c.api.Send(tgbotapi.NewMessage(id, text))
	if err != nil {
		return "", fmt.Errorf("telegram send failed: %w", err)
	}
	return strconv.Itoa(msg.MessageID), nil
}

func ParseChatID(chatID string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q", chatID)
	}
	return id, nil
}
