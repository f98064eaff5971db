package events

import (
	"time"

	"github.com/spec-kit/support-bot/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventWorkflowTicketCreated EventType = "workflow_ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventActionExecuted        EventType = "workflow_action_executed"
	EventNotificationSent      EventType = "notification_sent"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketKey string      `json:"ticket_key"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// WorkflowTicketCreatedPayload payload.
type WorkflowTicketCreatedPayload struct {
	Workflow domain.WorkflowKind `json:"workflow"`
	Email    string              `json:"email"`
	Summary  string              `json:"summary"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// ActionExecutedPayload payload.
type ActionExecutedPayload struct {
	Workflow domain.WorkflowKind `json:"workflow"`
	Result   string              `json:"result"`
	Success  bool                `json:"success"`
}

// NotificationSentPayload payload.
type NotificationSentPayload struct {
	Platform     string `json:"platform"`
	Conversation string `json:"conversation"`
}
