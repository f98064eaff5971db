package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-bot/internal/api/http"
	"github.com/spec-kit/support-bot/internal/api/http/handlers"
	"github.com/spec-kit/support-bot/internal/config"
	"github.com/spec-kit/support-bot/internal/events"
	"github.com/spec-kit/support-bot/internal/notify"
	"github.com/spec-kit/support-bot/internal/observability"
	"github.com/spec-kit/support-bot/internal/service"
	"github.com/spec-kit/support-bot/internal/tracker"
)

type capturingSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *capturingSender) Send(_ context.Context, _ notify.ConversationRef, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, text)
	return nil
}

func (s *capturingSender) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.sent...)
}

type fixture struct {
	app    *fiber.App
	sender *capturingSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	trackerCfg := config.TrackerConfig{
		BaseURL:    "https://mockcompany.atlassian.net",
		ProjectKey: "CST",
	}
	trackerClient := tracker.NewMockClient(trackerCfg, logger)
	registry := notify.NewRegistry(notify.ConversationRef{Platform: "api", ID: "broadcast"})
	sender := &capturingSender{}
	actions := service.NewActionsService(config.ActionsConfig{
		AllowedBetaFeatures: []string{"Copilot", "MAP"},
	}, logger)

	conversation := service.NewConversationService(service.ConversationDependencies{
		Tracker:    trackerClient,
		Registry:   registry,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	webhooks := service.NewWebhookService(service.WebhookDependencies{
		Tracker:    trackerClient,
		Actions:    actions,
		Registry:   registry,
		Sender:     sender,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler("support-bot", "test", true),
		Webhook:  handlers.NewWebhookHandler(webhooks, logger),
		Messages: handlers.NewMessagesHandler(conversation),
		Actions:  handlers.NewActionsHandler(actions),
	})

	return &fixture{app: app, sender: sender}
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode, decodeBody(t, resp.Body)
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var parsed map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&parsed))
	return parsed
}

func TestWebhook_ApprovedStatusChangeNotifies(t *testing.T) {
	f := newFixture(t)

	payload := map[string]any{
		"webhookEvent": "jira:issue_updated",
		"issue": map[string]any{
			"key": "CST-123",
			"fields": map[string]any{
				"summary": "Customer Signup Approval - john@acme.com",
				"labels":  []string{"customer-onboarding"},
			},
		},
		"changelog": map[string]any{
			"items": []map[string]any{
				{"field": "status", "fromString": "Pending", "toString": "Approved"},
			},
		},
	}

	status, body := postJSON(t, f.app, "/webhook/jira", payload)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "approved", body["status"])

	sent := f.sender.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "CST-123")
	assert.Contains(t, sent[0], "john@acme.com")
}

func TestWebhook_CommentOnlyEventIsAcknowledgedSilently(t *testing.T) {
	f := newFixture(t)

	payload := map[string]any{
		"webhookEvent": "jira:issue_updated",
		"issue":        map[string]any{"key": "CST-9"},
		"changelog": map[string]any{
			"items": []map[string]any{
				{"field": "comment", "fromString": "", "toString": "looks fine"},
			},
		},
	}

	status, body := postJSON(t, f.app, "/webhook/jira", payload)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ignored", body["status"])
	assert.Empty(t, f.sender.messages())
}

func TestWebhook_MalformedBodyStillAcknowledged(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(fiber.MethodPost, "/webhook/jira", bytes.NewReader([]byte("not json")))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ignored", decodeBody(t, resp.Body)["status"])
}

func TestWebhook_Health(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(fiber.MethodGet, "/webhook/health", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(fiber.MethodGet, "/health/live", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", decodeBody(t, resp.Body)["status"])

	req = httptest.NewRequest(fiber.MethodGet, "/health/ready", nil)
	resp, err = f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "ready", body["status"])
	deps, ok := body["dependencies"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mock", deps["tracker"])
}

func TestMessages_EndToEndTicketCreation(t *testing.T) {
	f := newFixture(t)

	// a relative date keeps the request inside the policy window whenever
	// the test runs
	status, body := postJSON(t, f.app, "/api/messages", map[string]any{
		"conversation_id": "conv-1",
		"from":            "tj",
		"text":            "extend trial for tj@gmail.com to in 30 days",
	})

	assert.Equal(t, fiber.StatusOK, status)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	key, _ := data["ticket_key"].(string)
	assert.Contains(t, key, "CST-")
	reply, _ := data["reply"].(string)
	assert.Contains(t, reply, "tj@gmail.com")
	assert.Contains(t, reply, key)
}

func TestMessages_RejectsEmptyText(t *testing.T) {
	f := newFixture(t)

	status, body := postJSON(t, f.app, "/api/messages", map[string]any{
		"conversation_id": "conv-1",
		"text":            "   ",
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
}

func TestActions_EnableFeature(t *testing.T) {
	f := newFixture(t)

	status, body := postJSON(t, f.app, "/customers/CUST001/features", map[string]any{
		"feature": "Copilot",
	})
	assert.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "success", data["status"])

	status, body = postJSON(t, f.app, "/customers/CUST001/features", map[string]any{
		"feature": "TimeTravel",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
}

func TestActions_SignupStatusRoundTrip(t *testing.T) {
	f := newFixture(t)

	status, _ := postJSON(t, f.app, "/customers/CUST001/signup/approve", map[string]any{})
	assert.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest(fiber.MethodGet, "/customers/CUST001/signup", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := decodeBody(t, resp.Body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "approved", data["signup_status"])
}
