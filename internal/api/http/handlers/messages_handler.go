package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-bot/internal/api/dto"
	"github.com/spec-kit/support-bot/internal/notify"
	"github.com/spec-kit/support-bot/internal/service"
	apperrors "github.com/spec-kit/support-bot/pkg/util"
)

// MessagesHandler is the HTTP face of the conversation pipeline, used by chat
// platform connectors that relay user turns as REST calls.
type MessagesHandler struct {
	conversation *service.ConversationService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(conversation *service.ConversationService) *MessagesHandler {
	return &MessagesHandler{conversation: conversation}
}

// Post POST /api/messages.
func (h *MessagesHandler) Post(c *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("text required", nil)
	}

	reply := h.conversation.HandleMessage(c.UserContext(), service.ChatMessage{
		Conversation: notify.ConversationRef{Platform: "api", ID: req.ConversationID},
		Sender:       req.From,
		Text:         req.Text,
	})

	return c.JSON(fiber.Map{"data": dto.ChatMessageResponse{
		Reply:     reply.Text,
		TicketKey: reply.TicketKey,
	}})
}
