package worker

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/spec-kit/support-bot/internal/config"
	"github.com/spec-kit/support-bot/internal/notify"
	"github.com/spec-kit/support-bot/internal/service"
)

// TelegramWorker polls Telegram for chat messages and feeds them through the
// conversation pipeline. It only exists when CHAT_PLATFORM=telegram.
type TelegramWorker struct {
	bot          *tele.Bot
	conversation *service.ConversationService
	logger       *zap.Logger
}

// NewTelegramBot creates the bot connection from configuration.
func NewTelegramBot(cfg config.ChatConfig, logger *zap.Logger) (*tele.Bot, error) {
	return tele.NewBot(tele.Settings{
		Token:  cfg.TelegramToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("telegram handler failed", zap.Error(err))
		},
	})
}

// NewTelegramWorker wires the bot's handlers to the conversation service.
func NewTelegramWorker(bot *tele.Bot, conversation *service.ConversationService, logger *zap.Logger) *TelegramWorker {
	w := &TelegramWorker{bot: bot, conversation: conversation, logger: logger}

	capabilities := func(c tele.Context) error {
		return c.Send(notify.UnrecognizedReply(), &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	}
	bot.Handle("/start", capabilities)
	bot.Handle("/help", capabilities)
	bot.Handle(tele.OnText, w.onText)

	return w
}

func (w *TelegramWorker) onText(c tele.Context) error {
	msg := service.ChatMessage{
		Conversation: notify.ConversationRef{
			Platform: config.PlatformTelegram,
			ID:       strconv.FormatInt(c.Chat().ID, 10),
		},
		Sender: c.Sender().Username,
		Text:   c.Text(),
	}
	reply := w.conversation.HandleMessage(context.Background(), msg)
	return c.Send(reply.Text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
}

// Start begins long polling. Blocks; run it on its own goroutine.
func (w *TelegramWorker) Start() {
	w.logger.Info("telegram polling started")
	w.bot.Start()
}

// Stop ends long polling.
func (w *TelegramWorker) Stop() {
	w.bot.Stop()
	w.logger.Info("telegram polling stopped")
}
