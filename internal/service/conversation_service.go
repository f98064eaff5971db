package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/dates"
	"github.com/spec-kit/support-bot/internal/domain"
	"github.com/spec-kit/support-bot/internal/events"
	"github.com/spec-kit/support-bot/internal/notify"
	"github.com/spec-kit/support-bot/internal/observability"
	"github.com/spec-kit/support-bot/internal/tracker"
	"github.com/spec-kit/support-bot/internal/validate"
	"github.com/spec-kit/support-bot/pkg/util"
)

// ChatMessage is one inbound utterance from any chat surface.
type ChatMessage struct {
	Conversation notify.ConversationRef
	Sender       string
	Text         string
}

// ChatReply is the bot's answer plus the ticket it opened, when one exists.
type ChatReply struct {
	Text      string
	TicketKey string
}

// ConversationService runs the chat pipeline: recognize the intent, validate
// it, open exactly one ticket, remember the conversation, reply.
type ConversationService struct {
	tracker    tracker.Client
	registry   *notify.Registry
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	parser     *dates.Parser
	policy     dates.Policy
	now        func() time.Time
}

// ConversationDependencies bundles collaborators for the conversation service.
type ConversationDependencies struct {
	Tracker    tracker.Client
	Registry   *notify.Registry
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewConversationService constructs the service. A nil Now falls back to the
// wall clock; tests inject a fixed one.
func NewConversationService(deps ConversationDependencies) *ConversationService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ConversationService{
		tracker:    deps.Tracker,
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		parser:     dates.NewParser(),
		policy:     dates.DefaultPolicy(),
		now:        now,
	}
}

// HandleMessage answers one utterance. Failures become replies, never
// half-created tickets: validation rejects before any tracker call, and an
// upstream failure yields an apology referencing nothing.
func (s *ConversationService) HandleMessage(ctx context.Context, msg ChatMessage) ChatReply {
	intent, ok := RecognizeIntent(msg.Text)
	if !ok {
		return ChatReply{Text: notify.UnrecognizedReply()}
	}

	req, err := s.buildRequest(intent)
	if err != nil {
		s.logger.Info("request rejected",
			zap.String("workflow", string(intent.Kind)),
			zap.Error(err),
		)
		return ChatReply{Text: notify.ValidationReply(util.ToDomainError(err).Message)}
	}

	ticket, err := s.openTicket(ctx, req)
	if err != nil {
		s.logger.Error("ticket creation failed",
			zap.String("workflow", string(req.Kind())),
			zap.Error(err),
		)
		return ChatReply{Text: notify.UpstreamApology()}
	}

	s.registry.Register(ticket.Key, msg.Conversation)
	s.metrics.RecordTicketOpened()

	return ChatReply{Text: notify.ConfirmationReply(req, ticket), TicketKey: ticket.Key}
}

// buildRequest validates the intent's arguments into a workflow request.
func (s *ConversationService) buildRequest(intent Intent) (domain.WorkflowRequest, error) {
	if err := validate.Email(intent.Email); err != nil {
		return nil, util.NewValidationError(err.Error(), nil)
	}

	switch intent.Kind {
	case domain.WorkflowTrialExtension:
		if intent.DateExpr == "" {
			return nil, util.NewValidationError(`a new trial end date is required, e.g. "to 20th June 2025"`, nil)
		}
		d, err := s.parseBusinessDate(intent.DateExpr)
		if err != nil {
			return nil, err
		}
		return domain.TrialExtension{Email: intent.Email, EndDate: d}, nil

	case domain.WorkflowSignupApproval:
		if err := validate.NonEmpty("company name", intent.Company); err != nil {
			return nil, util.NewValidationError(err.Error(), nil)
		}
		plan := domain.PlanTrial
		if intent.PlanType != "" {
			p, ok := domain.ParsePlan(intent.PlanType)
			if !ok {
				return nil, util.NewValidationError(fmt.Sprintf("unknown plan %q", intent.PlanType), nil)
			}
			plan = p
		}
		return domain.SignupApproval{Email: intent.Email, Company: intent.Company, Plan: plan}, nil

	case domain.WorkflowBetaEnable:
		if err := validate.Features(intent.Features); err != nil {
			return nil, util.NewValidationError(err.Error(), nil)
		}
		return domain.BetaEnable{Email: intent.Email, Features: intent.Features}, nil

	case domain.WorkflowSubscriptionUpgrade:
		current, okCurrent := domain.ParsePlan(intent.CurrentPlan)
		target, okTarget := domain.ParsePlan(intent.TargetPlan)
		if !okCurrent || !okTarget {
			return nil, util.NewValidationError(`current and target plans are required, e.g. "from trial to standard"`, nil)
		}
		if err := domain.ValidateUpgrade(current, target); err != nil {
			return nil, util.NewValidationError(err.Error(), nil)
		}
		req := domain.SubscriptionUpgrade{Email: intent.Email, CurrentPlan: current, TargetPlan: target}
		if intent.DateExpr != "" {
			d, err := s.parseBusinessDate(intent.DateExpr)
			if err != nil {
				return nil, err
			}
			req.EffectiveDate = d
		}
		return req, nil
	}

	return nil, util.NewValidationError("unsupported workflow", nil)
}

func (s *ConversationService) parseBusinessDate(expr string) (dates.Date, error) {
	now := s.now()
	d, err := s.parser.Parse(expr, now)
	if err != nil {
		return dates.Date{}, dateFailure(err)
	}
	if err := s.policy.Validate(d, now); err != nil {
		return dates.Date{}, dateFailure(err)
	}
	return d, nil
}

// openTicket builds the tracker payload from the request and creates the
// ticket. There is exactly one create call on this path.
func (s *ConversationService) openTicket(ctx context.Context, req domain.WorkflowRequest) (*domain.Ticket, error) {
	profile := req.Kind().Profile()
	in := tracker.TicketInput{
		Summary:     domain.TicketSummary(req.Kind(), req.CustomerEmail()),
		Description: req.DescriptionLines(),
		IssueType:   profile.IssueType,
		Priority:    profile.Priority,
		Labels:      req.Kind().Labels(),
	}

	ticket, err := s.tracker.CreateTicket(ctx, in)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventWorkflowTicketCreated,
		TicketKey: ticket.Key,
		Payload: events.WorkflowTicketCreatedPayload{
			Workflow: req.Kind(),
			Email:    req.CustomerEmail(),
			Summary:  ticket.Summary,
		},
	})
	return ticket, nil
}

// dateFailure maps interpreter errors onto the bot's error taxonomy.
func dateFailure(err error) error {
	var parseErr *dates.ParseError
	if errors.As(err, &parseErr) {
		return util.NewParseFailure(err.Error(), map[string]any{
			"input":    parseErr.Input,
			"examples": parseErr.Examples,
		})
	}
	var validityErr *dates.ValidityError
	if errors.As(err, &validityErr) {
		return util.NewParseFailure(err.Error(), map[string]any{"input": validityErr.Input})
	}
	var policyErr *dates.PolicyError
	if errors.As(err, &policyErr) {
		return util.NewValidationError(err.Error(), map[string]any{
			"date":   policyErr.Date.String(),
			"reason": string(policyErr.Reason),
		})
	}
	return util.NewValidationError(err.Error(), nil)
}

// publish stamps and dispatches an event, tolerating a nil dispatcher.
func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = dispatcher.Publish(ctx, event)
}
