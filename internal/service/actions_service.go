package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/config"
	"github.com/spec-kit/support-bot/internal/dates"
	"github.com/spec-kit/support-bot/internal/domain"
	"github.com/spec-kit/support-bot/pkg/util"
)

// The account backend is mocked: one well-known customer whose state lives in
// memory for the life of the process.
const (
	MockCustomerID   = "CUST001"
	MockCustomerName = "MockCustomer"
)

// ActionsService performs the account-side effects that ticket approvals
// trigger, and backs the customer-action HTTP endpoints.
type ActionsService struct {
	allowed []string
	logger  *zap.Logger

	mu           sync.Mutex
	signupStatus string
	plan         domain.Plan
	trialEnd     string
	features     []string
}

// NewActionsService constructs the mock account backend.
func NewActionsService(cfg config.ActionsConfig, logger *zap.Logger) *ActionsService {
	return &ActionsService{
		allowed:      cfg.AllowedBetaFeatures,
		logger:       logger,
		signupStatus: "pending",
		plan:         domain.PlanTrial,
	}
}

// AllowedFeatures returns the beta program's feature list.
func (s *ActionsService) AllowedFeatures() []string {
	return s.allowed
}

// EnableFeature turns on one beta feature for the customer.
func (s *ActionsService) EnableFeature(ctx context.Context, customerID, feature string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, ok := s.matchFeature(feature)
	if !ok {
		return "", util.NewValidationError(
			fmt.Sprintf("feature %q is not in the beta program", feature),
			map[string]any{"allowed": s.allowed},
		)
	}

	s.mu.Lock()
	s.features = append(s.features, name)
	s.mu.Unlock()

	s.logger.Info("beta feature enabled",
		zap.String("customer_id", customerID),
		zap.String("feature", name),
	)
	return fmt.Sprintf("Feature %s enabled for account %s (%s).", name, customerID, MockCustomerName), nil
}

// ApproveSignup activates the pending account.
func (s *ActionsService) ApproveSignup(ctx context.Context, customerID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.signupStatus = "approved"
	s.mu.Unlock()

	s.logger.Info("signup approved", zap.String("customer_id", customerID))
	return fmt.Sprintf("Customer signup approved. Account %s (%s) is now active.", customerID, MockCustomerName), nil
}

// SignupStatus reports the account's signup state.
func (s *ActionsService) SignupStatus(ctx context.Context, customerID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signupStatus, nil
}

// UpdateSubscriptionPlan moves the account to a plan.
func (s *ActionsService) UpdateSubscriptionPlan(ctx context.Context, customerID string, plan domain.Plan) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.plan = plan
	s.mu.Unlock()

	s.logger.Info("subscription plan updated",
		zap.String("customer_id", customerID),
		zap.String("plan", string(plan)),
	)
	return fmt.Sprintf("Subscription moved to %s for account %s (%s).", plan, customerID, MockCustomerName), nil
}

// UpdateSubscriptionPeriod moves the subscription end date.
func (s *ActionsService) UpdateSubscriptionPeriod(ctx context.Context, customerID string, end dates.Date) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.trialEnd = end.String()
	s.mu.Unlock()

	s.logger.Info("subscription period updated",
		zap.String("customer_id", customerID),
		zap.String("end_date", end.String()),
	)
	return fmt.Sprintf("Subscription extended until %s for account %s (%s).", end, customerID, MockCustomerName), nil
}

// Execute runs the follow-through for an approved workflow ticket, reading
// arguments back from the ticket's description fields.
func (s *ActionsService) Execute(ctx context.Context, kind domain.WorkflowKind, email string, fields map[string]string) (string, error) {
	switch kind {
	case domain.WorkflowSignupApproval:
		return s.ApproveSignup(ctx, MockCustomerID)

	case domain.WorkflowTrialExtension:
		// the ticket stores the end date in ISO form, so the reference time
		// does not influence the result
		raw := fields["new trial end date"]
		d, err := dates.NewParser().Parse(raw, time.Now())
		if err != nil {
			return "", util.NewValidationError(fmt.Sprintf("ticket carries an unreadable end date %q", raw), nil)
		}
		return s.UpdateSubscriptionPeriod(ctx, MockCustomerID, d)

	case domain.WorkflowBetaEnable:
		var results []string
		for _, feature := range splitList(fields["features"]) {
			result, err := s.EnableFeature(ctx, MockCustomerID, feature)
			if err != nil {
				return "", err
			}
			results = append(results, result)
		}
		if len(results) == 0 {
			return "", util.NewValidationError("ticket names no features to enable", nil)
		}
		return strings.Join(results, "\n"), nil

	case domain.WorkflowSubscriptionUpgrade:
		plan, ok := domain.ParsePlan(fields["target plan"])
		if !ok {
			return "", util.NewValidationError("ticket carries no readable target plan", nil)
		}
		return s.UpdateSubscriptionPlan(ctx, MockCustomerID, plan)
	}

	return "", util.NewValidationError(fmt.Sprintf("no follow-through for workflow %q", kind), nil)
}

func (s *ActionsService) matchFeature(feature string) (string, bool) {
	needle := strings.TrimSpace(feature)
	for _, f := range s.allowed {
		if strings.EqualFold(f, needle) {
			return f, true
		}
	}
	return "", false
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
