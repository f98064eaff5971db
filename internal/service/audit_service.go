package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/events"
)

// AuditService writes one structured log line per domain event, the bot's
// audit trail. It observes only; it never creates tickets or sends messages.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventWorkflowTicketCreated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventTicketStatusChanged, a.handleEvent)
	a.dispatcher.Subscribe(events.EventActionExecuted, a.handleEvent)
	a.dispatcher.Subscribe(events.EventNotificationSent, a.handleEvent)
}

func (a *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event", string(event.Type)),
		zap.String("ticket_key", event.TicketKey),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
