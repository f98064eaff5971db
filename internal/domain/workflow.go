package domain

import (
	"fmt"
	"strings"

	"github.com/spec-kit/support-bot/internal/dates"
)

// WorkflowKind enumerates the customer workflows the bot handles.
type WorkflowKind string

const (
	WorkflowSignupApproval      WorkflowKind = "signup_approval"
	WorkflowTrialExtension      WorkflowKind = "trial_extension"
	WorkflowBetaEnable          WorkflowKind = "beta_enable"
	WorkflowSubscriptionUpgrade WorkflowKind = "subscription_upgrade"
)

// TicketProfile carries the per-workflow ticket defaults.
type TicketProfile struct {
	Title     string
	IssueType string
	Priority  string
	Label     string
}

var ticketProfiles = map[WorkflowKind]TicketProfile{
	WorkflowSignupApproval: {
		Title:     "Customer Signup Approval",
		IssueType: "Task",
		Priority:  "P1",
		Label:     "customer-onboarding",
	},
	WorkflowTrialExtension: {
		Title:     "Trial Extension Request",
		IssueType: "Task",
		Priority:  "P2",
		Label:     "trial-extension",
	},
	WorkflowBetaEnable: {
		Title:     "Beta Features Enablement",
		IssueType: "Task",
		Priority:  "P3",
		Label:     "feature-enablement",
	},
	WorkflowSubscriptionUpgrade: {
		Title:     "Subscription Upgrade",
		IssueType: "Task",
		Priority:  "P1",
		Label:     "subscription-upgrade",
	},
}

// Profile returns the ticket defaults for the kind.
func (k WorkflowKind) Profile() TicketProfile {
	return ticketProfiles[k]
}

// Valid reports whether the kind is one of the handled workflows.
func (k WorkflowKind) Valid() bool {
	_, ok := ticketProfiles[k]
	return ok
}

// Labels returns the full label set stamped on tickets of this kind.
func (k WorkflowKind) Labels() []string {
	return []string{k.Profile().Label, "customer-support", "automated"}
}

// KindFromLabels recovers the workflow kind from ticket labels.
func KindFromLabels(labels []string) (WorkflowKind, bool) {
	for _, l := range labels {
		for kind, profile := range ticketProfiles {
			if strings.EqualFold(l, profile.Label) {
				return kind, true
			}
		}
	}
	return "", false
}

// KindFromSummary guesses the workflow kind from a ticket summary.
func KindFromSummary(summary string) (WorkflowKind, bool) {
	s := strings.ToLower(summary)
	switch {
	case strings.Contains(s, "signup"):
		return WorkflowSignupApproval, true
	case strings.Contains(s, "trial"):
		return WorkflowTrialExtension, true
	case strings.Contains(s, "beta"):
		return WorkflowBetaEnable, true
	case strings.Contains(s, "subscription"), strings.Contains(s, "upgrade"):
		return WorkflowSubscriptionUpgrade, true
	}
	return "", false
}

// WorkflowRequest is one validated customer ask, ready to become a ticket.
type WorkflowRequest interface {
	Kind() WorkflowKind
	CustomerEmail() string
	DescriptionLines() []string
}

// SignupApproval asks to approve a pending customer signup.
type SignupApproval struct {
	Email   string
	Company string
	Plan    Plan
}

func (r SignupApproval) Kind() WorkflowKind { return WorkflowSignupApproval }
func (r SignupApproval) CustomerEmail() string { return r.Email }

func (r SignupApproval) DescriptionLines() []string {
	return []string{
		"Customer Email: " + r.Email,
		"Company: " + r.Company,
		"Plan Type: " + string(r.Plan),
		"Requested Action: Approve customer signup",
	}
}

// TrialExtension asks to move a customer's trial end date.
type TrialExtension struct {
	Email   string
	EndDate dates.Date
}

func (r TrialExtension) Kind() WorkflowKind { return WorkflowTrialExtension }
func (r TrialExtension) CustomerEmail() string { return r.Email }

func (r TrialExtension) DescriptionLines() []string {
	return []string{
		"Customer Email: " + r.Email,
		"New Trial End Date: " + r.EndDate.String(),
		"Requested Action: Extend trial period",
	}
}

// BetaEnable asks to turn on beta features for a customer.
type BetaEnable struct {
	Email    string
	Features []string
}

func (r BetaEnable) Kind() WorkflowKind { return WorkflowBetaEnable }
func (r BetaEnable) CustomerEmail() string { return r.Email }

func (r BetaEnable) DescriptionLines() []string {
	return []string{
		"Customer Email: " + r.Email,
		"Features: " + strings.Join(r.Features, ", "),
		"Requested Action: Enable beta features",
	}
}

// SubscriptionUpgrade asks to move a customer between plans. A zero
// EffectiveDate means the change applies immediately on approval.
type SubscriptionUpgrade struct {
	Email         string
	CurrentPlan   Plan
	TargetPlan    Plan
	EffectiveDate dates.Date
}

func (r SubscriptionUpgrade) Kind() WorkflowKind { return WorkflowSubscriptionUpgrade }
func (r SubscriptionUpgrade) CustomerEmail() string { return r.Email }

func (r SubscriptionUpgrade) DescriptionLines() []string {
	effective := "Immediate"
	if !r.EffectiveDate.IsZero() {
		effective = r.EffectiveDate.String()
	}
	return []string{
		"Customer Email: " + r.Email,
		"Current Plan: " + string(r.CurrentPlan),
		"Target Plan: " + string(r.TargetPlan),
		"Effective Date: " + effective,
		"Requested Action: Upgrade subscription",
	}
}

// TicketSummary renders the canonical "<Title> - <email>" summary line.
func TicketSummary(kind WorkflowKind, email string) string {
	return fmt.Sprintf("%s - %s", kind.Profile().Title, email)
}
