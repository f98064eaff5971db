package domain

import (
	"fmt"
	"strings"
)

// Plan enumerates subscription plans.
type Plan string

const (
	PlanTrial      Plan = "trial"
	PlanStandard   Plan = "standard"
	PlanEnterprise Plan = "enterprise"
)

// ParsePlan resolves a free-form plan name.
func ParsePlan(s string) (Plan, bool) {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanTrial:
		return PlanTrial, true
	case PlanStandard:
		return PlanStandard, true
	case PlanEnterprise:
		return PlanEnterprise, true
	}
	return "", false
}

// allowedUpgrades maps each plan to the plans it may move to.
var allowedUpgrades = map[Plan][]Plan{
	PlanTrial:    {PlanStandard, PlanEnterprise},
	PlanStandard: {PlanEnterprise},
}

// CanUpgrade reports whether moving from one plan to another is legal.
func CanUpgrade(from, to Plan) bool {
	for _, allowed := range allowedUpgrades[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// InvalidUpgradeError names both ends of an illegal plan change.
type InvalidUpgradeError struct {
	From Plan
	To   Plan
}

func (e *InvalidUpgradeError) Error() string {
	return fmt.Sprintf("cannot upgrade from %s to %s", e.From, e.To)
}

// ValidateUpgrade rejects downgrades, lateral moves, and unknown plans.
func ValidateUpgrade(from, to Plan) error {
	if CanUpgrade(from, to) {
		return nil
	}
	return &InvalidUpgradeError{From: from, To: to}
}
