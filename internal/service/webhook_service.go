package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/api/dto"
	"github.com/spec-kit/support-bot/internal/domain"
	"github.com/spec-kit/support-bot/internal/events"
	"github.com/spec-kit/support-bot/internal/notify"
	"github.com/spec-kit/support-bot/internal/observability"
	"github.com/spec-kit/support-bot/internal/tracker"
)

// Webhook outcomes recorded by metrics and echoed in the ack body.
const (
	WebhookOutcomeIgnored      = "ignored"
	WebhookOutcomeApproved     = "approved"
	WebhookOutcomeRejected     = "rejected"
	WebhookOutcomeStatusUpdate = "status_update"
)

// WebhookService turns tracker status-change deliveries into chat
// notifications and, on approval, runs the workflow's follow-through. It is
// stateless between deliveries; irrelevant payloads are dropped without error
// so the tracker never retries them.
type WebhookService struct {
	tracker    tracker.Client
	actions    *ActionsService
	registry   *notify.Registry
	sender     notify.Sender
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// WebhookDependencies bundles collaborators for the webhook service.
type WebhookDependencies struct {
	Tracker    tracker.Client
	Actions    *ActionsService
	Registry   *notify.Registry
	Sender     notify.Sender
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewWebhookService constructs the service.
func NewWebhookService(deps WebhookDependencies) *WebhookService {
	return &WebhookService{
		tracker:    deps.Tracker,
		actions:    deps.Actions,
		registry:   deps.Registry,
		sender:     deps.Sender,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// ProcessEvent handles one delivery and reports what was done with it. It
// never returns an error: a payload the bot cannot or will not act on is
// acknowledged as ignored.
func (s *WebhookService) ProcessEvent(ctx context.Context, event dto.TrackerEvent) string {
	change, ok := s.relevantChange(event)
	if !ok {
		s.metrics.RecordWebhookOutcome(WebhookOutcomeIgnored)
		return WebhookOutcomeIgnored
	}

	key := event.Issue.Key
	summary := event.Issue.Fields.Summary
	description := tracker.DescriptionText(event.Issue.Fields.Description)
	email := customerEmail(event.Issue.Fields, description)

	s.logger.Info("ticket status changed",
		zap.String("key", key),
		zap.String("from", change.From),
		zap.String("to", change.To),
	)

	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventTicketStatusChanged,
		TicketKey: key,
		Payload:   events.TicketStatusChangedPayload{OldStatus: change.From, NewStatus: change.To},
	})

	var outcome string
	switch domain.ClassifyStatus(change.To) {
	case domain.StatusApproved:
		outcome = WebhookOutcomeApproved
		s.handleApproved(ctx, key, summary, description, email, event.Issue.Fields.Labels)
	case domain.StatusRejected:
		outcome = WebhookOutcomeRejected
		s.handleRejected(ctx, key, email)
	default:
		outcome = WebhookOutcomeStatusUpdate
		s.notifyTicket(ctx, key, notify.StatusChangeMessage(key, change.From, change.To), false)
	}

	s.metrics.RecordWebhookOutcome(outcome)
	return outcome
}

// relevantChange returns the status transition carried by the delivery. A
// delivery without one, such as a comment-added event, is not relevant.
func (s *WebhookService) relevantChange(event dto.TrackerEvent) (domain.StatusChange, bool) {
	if event.WebhookEvent != "jira:issue_updated" {
		return domain.StatusChange{}, false
	}
	if event.Issue.Key == "" {
		return domain.StatusChange{}, false
	}
	for _, item := range event.Changelog.Items {
		if strings.EqualFold(item.Field, "status") && item.ToString != "" {
			return domain.StatusChange{From: item.FromString, To: item.ToString}, true
		}
	}
	return domain.StatusChange{}, false
}

// handleApproved runs the workflow's follow-through action, records the
// result on the ticket, and notifies the originating conversation.
func (s *WebhookService) handleApproved(ctx context.Context, key, summary, description, email string, labels []string) {
	kind, ok := domain.KindFromLabels(labels)
	if !ok {
		kind, ok = domain.KindFromSummary(summary)
	}

	result := ""
	if ok {
		var err error
		result, err = s.actions.Execute(ctx, kind, email, descriptionFields(description))
		success := err == nil
		if err != nil {
			s.logger.Warn("follow-through failed",
				zap.String("key", key),
				zap.String("workflow", string(kind)),
				zap.Error(err),
			)
			result = "The request was approved, but applying it to the account failed. The support team has been notified."
		}
		publish(ctx, s.dispatcher, events.Event{
			Type:      events.EventActionExecuted,
			TicketKey: key,
			Payload:   events.ActionExecutedPayload{Workflow: kind, Result: result, Success: success},
		})
		if err := s.tracker.AddComment(ctx, key, "Automated follow-through: "+result); err != nil {
			s.logger.Warn("result comment failed", zap.String("key", key), zap.Error(err))
		}
	} else {
		s.logger.Warn("approved ticket matches no workflow", zap.String("key", key), zap.String("summary", summary))
	}

	s.notifyTicket(ctx, key, notify.ApprovalMessage(key, email, s.tracker.BrowseURL(key), result), true)
}

// handleRejected relays the reviewer's reason, read from the ticket's latest
// comment, without touching the account.
func (s *WebhookService) handleRejected(ctx context.Context, key, email string) {
	reason, err := s.tracker.LatestComment(ctx, key)
	if err != nil {
		s.logger.Warn("rejection reason lookup failed", zap.String("key", key), zap.Error(err))
		reason = ""
	}
	s.notifyTicket(ctx, key, notify.RejectionMessage(key, email, reason, s.tracker.BrowseURL(key)), true)
}

// notifyTicket pushes text back to the conversation that opened the ticket.
// Terminal transitions release the conversation binding afterwards.
func (s *WebhookService) notifyTicket(ctx context.Context, key, text string, terminal bool) {
	ref := s.registry.Resolve(key)
	if err := s.sender.Send(ctx, ref, text); err != nil {
		s.logger.Warn("chat notification failed",
			zap.String("key", key),
			zap.String("platform", ref.Platform),
			zap.Error(err),
		)
	} else {
		publish(ctx, s.dispatcher, events.Event{
			Type:      events.EventNotificationSent,
			TicketKey: key,
			Payload:   events.NotificationSentPayload{Platform: ref.Platform, Conversation: ref.ID},
		})
	}
	if terminal {
		s.registry.Forget(key)
	}
}

var summaryEmailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// customerEmail recovers the customer's address from the delivery: the
// "Title - email" summary shape first, then a description line scan.
func customerEmail(fields dto.TrackerFields, description string) string {
	if parts := strings.SplitN(fields.Summary, " - ", 2); len(parts) == 2 {
		if email := summaryEmailPattern.FindString(parts[1]); email != "" {
			return email
		}
	}
	if email := summaryEmailPattern.FindString(fields.Summary); email != "" {
		return email
	}
	for _, line := range strings.Split(description, "\n") {
		if strings.Contains(strings.ToLower(line), "email") {
			if email := summaryEmailPattern.FindString(line); email != "" {
				return email
			}
		}
	}
	return summaryEmailPattern.FindString(description)
}

// descriptionFields reads the "Name: value" lines a workflow ticket's
// description is built from. Keys are lowercased.
func descriptionFields(description string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(description, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
	return fields
}
