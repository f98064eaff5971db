package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-bot/internal/api/dto"
	"github.com/spec-kit/support-bot/internal/dates"
	"github.com/spec-kit/support-bot/internal/domain"
	"github.com/spec-kit/support-bot/internal/service"
	apperrors "github.com/spec-kit/support-bot/pkg/util"
)

// ActionsHandler exposes the account-side actions directly, the same
// operations ticket approvals trigger through the webhook path.
type ActionsHandler struct {
	actions *service.ActionsService
	parser  *dates.Parser
	policy  dates.Policy
}

// NewActionsHandler constructs handler.
func NewActionsHandler(actions *service.ActionsService) *ActionsHandler {
	return &ActionsHandler{
		actions: actions,
		parser:  dates.NewParser(),
		policy:  dates.DefaultPolicy(),
	}
}

// EnableFeature POST /customers/:id/features.
func (h *ActionsHandler) EnableFeature(c *fiber.Ctx) error {
	var req dto.EnableFeatureRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Feature) == "" {
		return apperrors.NewValidationError("feature required", map[string]any{
			"allowed": h.actions.AllowedFeatures(),
		})
	}
	result, err := h.actions.EnableFeature(c.UserContext(), c.Params("id"), req.Feature)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ActionResponse{Status: "success", Message: result}})
}

// UpdatePlan POST /customers/:id/subscription/plan.
func (h *ActionsHandler) UpdatePlan(c *fiber.Ctx) error {
	var req dto.UpdatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	plan, ok := domain.ParsePlan(req.Plan)
	if !ok {
		return apperrors.NewValidationError("plan must be trial, standard, or enterprise", nil)
	}
	result, err := h.actions.UpdateSubscriptionPlan(c.UserContext(), c.Params("id"), plan)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ActionResponse{Status: "success", Message: result}})
}

// UpdatePeriod POST /customers/:id/subscription/period.
func (h *ActionsHandler) UpdatePeriod(c *fiber.Ctx) error {
	var req dto.UpdatePeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	now := time.Now()
	end, err := h.parser.Parse(req.SubscriptionEndDate, now)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]any{
			"examples": dates.ExampleFormats,
		})
	}
	if err := h.policy.Validate(end, now); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	result, err := h.actions.UpdateSubscriptionPeriod(c.UserContext(), c.Params("id"), end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ActionResponse{Status: "success", Message: result}})
}

// ApproveSignup POST /customers/:id/signup/approve.
func (h *ActionsHandler) ApproveSignup(c *fiber.Ctx) error {
	result, err := h.actions.ApproveSignup(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ActionResponse{Status: "success", Message: result}})
}

// SignupStatus GET /customers/:id/signup.
func (h *ActionsHandler) SignupStatus(c *fiber.Ctx) error {
	status, err := h.actions.SignupStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SignupStatusResponse{
		CustomerID:   c.Params("id"),
		CustomerName: service.MockCustomerName,
		SignupStatus: status,
	}})
}
