package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/spec-kit/support-bot/internal/config"
)

// ConversationRef addresses one chat conversation for proactive sends.
type ConversationRef struct {
	Platform string
	ID       string
}

func (r ConversationRef) IsZero() bool {
	return r == ConversationRef{}
}

// Sender delivers proactive text to a chat conversation.
type Sender interface {
	Send(ctx context.Context, ref ConversationRef, text string) error
}

// NewSender selects the chat transport from configuration.
func NewSender(cfg config.ChatConfig, bot *tele.Bot, logger *zap.Logger) (Sender, error) {
	switch cfg.Platform {
	case config.PlatformTelegram:
		if bot == nil {
			return nil, fmt.Errorf("telegram chat platform requires a bot instance")
		}
		return NewTelegramSender(bot, logger), nil
	case config.PlatformWebhook:
		return NewWebhookSender(cfg.WebhookURL, logger), nil
	default:
		return NewConsoleSender(logger), nil
	}
}
