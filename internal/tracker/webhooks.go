package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-bot/pkg/util"
)

// WebhookManager administers tracker webhook registrations. Jira's webhook
// admin API predates REST v3 and lives under /rest/webhooks/1.0.
type WebhookManager struct {
	client *JiraClient
}

// NewWebhookManager wraps a real tracker client.
func NewWebhookManager(client *JiraClient) *WebhookManager {
	return &WebhookManager{client: client}
}

// WebhookRegistration describes one callback subscription.
type WebhookRegistration struct {
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	Events      []string          `json:"events"`
	Filters     map[string]string `json:"filters,omitempty"`
	ExcludeBody bool              `json:"excludeBody"`
}

// RegisteredWebhook is one subscription as reported by the tracker.
type RegisteredWebhook struct {
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Self   string   `json:"self"`
}

// DefaultRegistration subscribes the bot's callback to issue updates in its
// project.
func (m *WebhookManager) DefaultRegistration(callbackURL string) WebhookRegistration {
	return WebhookRegistration{
		Name:   "customer-support-bot",
		URL:    callbackURL,
		Events: []string{"jira:issue_updated"},
		Filters: map[string]string{
			"issue-related-events-section": "project = " + m.client.project,
		},
	}
}

// Register creates a webhook subscription and returns its self link.
func (m *WebhookManager) Register(ctx context.Context, reg WebhookRegistration) (string, error) {
	endpoint := m.client.baseURL + "/rest/webhooks/1.0/webhook"

	code, body, err := m.client.do(ctx, fiber.MethodPost, endpoint, reg)
	if err != nil {
		return "", util.NewUpstreamError("webhook registration failed", err)
	}
	if code != http.StatusCreated && code != http.StatusOK {
		return "", upstreamStatus("register webhook", code, body)
	}

	var created struct {
		Self string `json:"self"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", util.NewUpstreamError("tracker returned an unreadable webhook", err)
	}
	return created.Self, nil
}

// List returns all webhook subscriptions visible to the account.
func (m *WebhookManager) List(ctx context.Context) ([]RegisteredWebhook, error) {
	endpoint := m.client.baseURL + "/rest/webhooks/1.0/webhook"

	code, body, err := m.client.do(ctx, fiber.MethodGet, endpoint, nil)
	if err != nil {
		return nil, util.NewUpstreamError("webhook listing failed", err)
	}
	if code != http.StatusOK {
		return nil, upstreamStatus("list webhooks", code, body)
	}

	var hooks []RegisteredWebhook
	if err := json.Unmarshal(body, &hooks); err != nil {
		return nil, util.NewUpstreamError("tracker returned unreadable webhooks", err)
	}
	return hooks, nil
}

// Delete removes a subscription by its self link or numeric id.
func (m *WebhookManager) Delete(ctx context.Context, id string) error {
	endpoint := id
	if !strings.HasPrefix(id, "http") {
		endpoint = m.client.baseURL + "/rest/webhooks/1.0/webhook/" + id
	}

	code, body, err := m.client.do(ctx, fiber.MethodDelete, endpoint, nil)
	if err != nil {
		return util.NewUpstreamError("webhook deletion failed", err)
	}
	if code != http.StatusNoContent && code != http.StatusOK {
		return upstreamStatus("delete webhook", code, body)
	}
	return nil
}

// EnsureRegistered registers the callback unless an identical subscription
// already exists.
func (m *WebhookManager) EnsureRegistered(ctx context.Context, callbackURL string) error {
	hooks, err := m.List(ctx)
	if err != nil {
		return err
	}
	reg := m.DefaultRegistration(callbackURL)
	for _, h := range hooks {
		if h.Name == reg.Name && h.URL == reg.URL {
			return nil
		}
	}
	if _, err := m.Register(ctx, reg); err != nil {
		return err
	}
	return nil
}
