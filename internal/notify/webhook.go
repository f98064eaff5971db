package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookSender posts messages to an incoming-webhook URL, the shape Teams
// and Slack style connectors accept.
type WebhookSender struct {
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewWebhookSender constructs the HTTP sender.
func NewWebhookSender(url string, logger *zap.Logger) *WebhookSender {
	return &WebhookSender{url: url, timeout: 10 * time.Second, logger: logger}
}

func (s *WebhookSender) Send(ctx context.Context, ref ConversationRef, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.AcquireAgent()
	agent.Timeout(s.timeout)
	agent.JSON(map[string]string{"text": text})

	req := agent.Request()
	req.Header.SetMethod(fiber.MethodPost)
	req.SetRequestURI(s.url)

	if err := agent.Parse(); err != nil {
		return err
	}

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("chat webhook returned %d", code)
	}
	s.logger.Debug("chat webhook delivered", zap.Int("status", code))
	return nil
}
