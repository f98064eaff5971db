package notify

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleSender logs messages instead of delivering them, the offline chat mode.
type ConsoleSender struct {
	logger *zap.Logger
}

// NewConsoleSender constructs the logging sender.
func NewConsoleSender(logger *zap.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) Send(ctx context.Context, ref ConversationRef, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("chat notification",
		zap.String("conversation", ref.ID),
		zap.String("text", text),
	)
	return nil
}
