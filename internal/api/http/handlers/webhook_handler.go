package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/api/dto"
	"github.com/spec-kit/support-bot/internal/service"
)

// WebhookHandler receives tracker callbacks. It always acknowledges with 200
// so the tracker never retries a delivery the bot chose to ignore.
type WebhookHandler struct {
	webhooks *service.WebhookService
	logger   *zap.Logger
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(webhooks *service.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, logger: logger}
}

// Receive POST /webhook/jira.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var event dto.TrackerEvent
	if err := c.BodyParser(&event); err != nil {
		h.logger.Warn("unreadable webhook payload", zap.Error(err))
		return c.JSON(dto.WebhookAck{Status: service.WebhookOutcomeIgnored})
	}
	outcome := h.webhooks.ProcessEvent(c.UserContext(), event)
	return c.JSON(dto.WebhookAck{Status: outcome})
}

// Health GET /webhook/health.
func (h *WebhookHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
