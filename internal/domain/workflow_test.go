package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-bot/internal/dates"
	"github.com/spec-kit/support-bot/internal/domain"
)

func TestTicketSummary(t *testing.T) {
	got := domain.TicketSummary(domain.WorkflowTrialExtension, "tj@example.com")
	assert.Equal(t, "Trial Extension Request - tj@example.com", got)
}

func TestKindFromLabels(t *testing.T) {
	kind, ok := domain.KindFromLabels([]string{"customer-support", "Trial-Extension", "automated"})
	require.True(t, ok)
	assert.Equal(t, domain.WorkflowTrialExtension, kind)

	_, ok = domain.KindFromLabels([]string{"billing", "urgent"})
	assert.False(t, ok)
}

func TestKindFromSummary(t *testing.T) {
	cases := map[string]domain.WorkflowKind{
		"Customer Signup Approval - a@b.co":  domain.WorkflowSignupApproval,
		"Trial Extension Request - a@b.co":   domain.WorkflowTrialExtension,
		"Beta Features Enablement - a@b.co":  domain.WorkflowBetaEnable,
		"Subscription Upgrade - a@b.co":      domain.WorkflowSubscriptionUpgrade,
		"please upgrade this account asap":   domain.WorkflowSubscriptionUpgrade,
	}
	for summary, want := range cases {
		kind, ok := domain.KindFromSummary(summary)
		require.True(t, ok, summary)
		assert.Equal(t, want, kind, summary)
	}

	_, ok := domain.KindFromSummary("unrelated production incident")
	assert.False(t, ok)
}

func TestWorkflowLabels(t *testing.T) {
	labels := domain.WorkflowBetaEnable.Labels()
	assert.Contains(t, labels, "feature-enablement")
	assert.Contains(t, labels, "customer-support")
	assert.Contains(t, labels, "automated")
}

func TestDescriptionLinesCarryArguments(t *testing.T) {
	end, err := dates.New(2025, time.June, 20)
	require.NoError(t, err)

	req := domain.TrialExtension{Email: "tj@example.com", EndDate: end}
	lines := req.DescriptionLines()
	assert.Contains(t, lines, "Customer Email: tj@example.com")
	assert.Contains(t, lines, "New Trial End Date: 2025-06-20")

	upgrade := domain.SubscriptionUpgrade{
		Email:       "tj@example.com",
		CurrentPlan: domain.PlanTrial,
		TargetPlan:  domain.PlanStandard,
	}
	assert.Contains(t, upgrade.DescriptionLines(), "Effective Date: Immediate")
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, domain.StatusApproved, domain.ClassifyStatus("Approved"))
	assert.Equal(t, domain.StatusApproved, domain.ClassifyStatus("DONE"))
	assert.Equal(t, domain.StatusApproved, domain.ClassifyStatus(" completed "))
	assert.Equal(t, domain.StatusRejected, domain.ClassifyStatus("Rejected"))
	assert.Equal(t, domain.StatusRejected, domain.ClassifyStatus("denied"))
	assert.Equal(t, domain.StatusRejected, domain.ClassifyStatus("Cancelled"))
	assert.Equal(t, domain.StatusOther, domain.ClassifyStatus("In Progress"))
	assert.Equal(t, domain.StatusOther, domain.ClassifyStatus(""))
}
