package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	trackerMode string
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, mockTracker bool) *HealthHandler {
	mode := "live"
	if mockTracker {
		mode = "mock"
	}
	return &HealthHandler{serviceName: serviceName, version: version, trackerMode: mode}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness. The bot holds no connections of its own;
// readiness names the tracker mode so operators can spot an accidental mock
// deployment.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ready",
		"dependencies": fiber.Map{
			"tracker": h.trackerMode,
		},
	})
}
