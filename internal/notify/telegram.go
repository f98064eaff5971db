package notify

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// TelegramSender delivers messages through the Telegram Bot API.
type TelegramSender struct {
	bot    *tele.Bot
	logger *zap.Logger
}

// NewTelegramSender wraps a running bot.
func NewTelegramSender(bot *tele.Bot, logger *zap.Logger) *TelegramSender {
	return &TelegramSender{bot: bot, logger: logger}
}

func (s *TelegramSender) Send(ctx context.Context, ref ConversationRef, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, err := strconv.ParseInt(ref.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", ref.ID, err)
	}
	_, err = s.bot.Send(&tele.Chat{ID: chatID}, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	if err != nil {
		return err
	}
	s.logger.Debug("telegram notification delivered", zap.Int64("chat_id", chatID))
	return nil
}
