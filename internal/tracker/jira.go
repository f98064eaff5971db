package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/config"
	"github.com/spec-kit/support-bot/internal/domain"
	"github.com/spec-kit/support-bot/pkg/util"
)

// JiraClient talks to Atlassian REST v3 with basic auth.
type JiraClient struct {
	baseURL  string
	email    string
	token    string
	project  string
	assignee string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewJiraClient constructs the real tracker client.
func NewJiraClient(cfg config.TrackerConfig, logger *zap.Logger) *JiraClient {
	return &JiraClient{
		baseURL:  cfg.BaseURL,
		email:    cfg.Email,
		token:    cfg.APIToken,
		project:  cfg.ProjectKey,
		assignee: cfg.AssigneeEmail,
		timeout:  cfg.Timeout(),
		logger:   logger,
	}
}

// CreateTicket opens an issue and moves it into the workflow's initial state.
func (c *JiraClient) CreateTicket(ctx context.Context, in TicketInput) (*domain.Ticket, error) {
	project := in.Project
	if project == "" {
		project = c.project
	}
	assignee := in.AssigneeEmail
	if assignee == "" {
		assignee = c.assignee
	}

	fields := map[string]any{
		"project":     map[string]string{"key": project},
		"summary":     in.Summary,
		"description": adfDocument(in.Description),
		"issuetype":   map[string]string{"name": in.IssueType},
		"labels":      in.Labels,
	}
	if in.Priority != "" {
		fields["priority"] = map[string]string{"name": in.Priority}
	}
	if assignee != "" {
		if accountID, err := c.lookupAccountID(ctx, assignee); err != nil {
			c.logger.Warn("assignee lookup failed", zap.String("email", assignee), zap.Error(err))
		} else if accountID != "" {
			fields["assignee"] = map[string]string{"accountId": accountID}
		}
	}

	code, body, err := c.do(ctx, fiber.MethodPost, c.baseURL+"/rest/api/3/issue", map[string]any{"fields": fields})
	if err != nil {
		return nil, util.NewUpstreamError("tracker create failed", err)
	}
	if code != http.StatusCreated {
		return nil, upstreamStatus("create issue", code, body)
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.Key == "" {
		return nil, util.NewUpstreamError("tracker returned an unreadable create response", err)
	}

	// Creation already succeeded; a failed initial transition only logs.
	if err := c.TransitionStatus(ctx, created.Key, domain.TicketStatusPending); err != nil {
		c.logger.Warn("initial transition failed", zap.String("key", created.Key), zap.Error(err))
	}

	c.logger.Info("ticket created",
		zap.String("key", created.Key),
		zap.String("summary", in.Summary),
		zap.Strings("labels", in.Labels),
	)

	return &domain.Ticket{
		Key:           created.Key,
		URL:           c.BrowseURL(created.Key),
		Summary:       in.Summary,
		Status:        domain.TicketStatusPending,
		Labels:        in.Labels,
		AssigneeEmail: assignee,
	}, nil
}

// TransitionStatus resolves the transition whose target matches status and
// executes it.
func (c *JiraClient) TransitionStatus(ctx context.Context, key, status string) error {
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s/transitions", c.baseURL, key)

	code, body, err := c.do(ctx, fiber.MethodGet, endpoint, nil)
	if err != nil {
		return util.NewUpstreamError("tracker transition lookup failed", err)
	}
	if code != http.StatusOK {
		return upstreamStatus("list transitions", code, body)
	}

	var page struct {
		Transitions []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			To   struct {
				Name string `json:"name"`
			} `json:"to"`
		} `json:"transitions"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return util.NewUpstreamError("tracker returned unreadable transitions", err)
	}

	transitionID := ""
	for _, t := range page.Transitions {
		if strings.EqualFold(t.To.Name, status) || strings.EqualFold(t.Name, status) {
			transitionID = t.ID
			break
		}
	}
	if transitionID == "" {
		return util.NewUpstreamError(fmt.Sprintf("no transition to %q on %s", status, key), nil)
	}

	payload := map[string]any{"transition": map[string]string{"id": transitionID}}
	code, body, err = c.do(ctx, fiber.MethodPost, endpoint, payload)
	if err != nil {
		return util.NewUpstreamError("tracker transition failed", err)
	}
	if code != http.StatusNoContent && code != http.StatusOK {
		return upstreamStatus("execute transition", code, body)
	}
	return nil
}

// AddComment posts a plain-text comment.
func (c *JiraClient) AddComment(ctx context.Context, key, body string) error {
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s/comment", c.baseURL, key)
	payload := map[string]any{"body": adfDocument([]string{body})}

	code, respBody, err := c.do(ctx, fiber.MethodPost, endpoint, payload)
	if err != nil {
		return util.NewUpstreamError("tracker comment failed", err)
	}
	if code != http.StatusCreated && code != http.StatusOK {
		return upstreamStatus("add comment", code, respBody)
	}
	return nil
}

// LatestComment returns the newest comment's text, or empty when there are none.
func (c *JiraClient) LatestComment(ctx context.Context, key string) (string, error) {
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s/comment", c.baseURL, key)

	code, body, err := c.do(ctx, fiber.MethodGet, endpoint, nil)
	if err != nil {
		return "", util.NewUpstreamError("tracker comment lookup failed", err)
	}
	if code != http.StatusOK {
		return "", upstreamStatus("list comments", code, body)
	}

	var page struct {
		Comments []struct {
			Body adfNode `json:"body"`
		} `json:"comments"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return "", util.NewUpstreamError("tracker returned unreadable comments", err)
	}
	if len(page.Comments) == 0 {
		return "", nil
	}
	return flattenADF(page.Comments[len(page.Comments)-1].Body), nil
}

// TicketStatus returns the issue's current status name.
func (c *JiraClient) TicketStatus(ctx context.Context, key string) (string, error) {
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s?fields=status", c.baseURL, key)

	code, body, err := c.do(ctx, fiber.MethodGet, endpoint, nil)
	if err != nil {
		return "", util.NewUpstreamError("tracker status lookup failed", err)
	}
	if code == http.StatusNotFound {
		return "", util.NewNotFound("ticket", map[string]any{"key": key})
	}
	if code != http.StatusOK {
		return "", upstreamStatus("get issue", code, body)
	}

	var issue struct {
		Fields struct {
			Status struct {
				Name string `json:"name"`
			} `json:"status"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(body, &issue); err != nil {
		return "", util.NewUpstreamError("tracker returned an unreadable issue", err)
	}
	return issue.Fields.Status.Name, nil
}

// BrowseURL returns the human-facing issue URL.
func (c *JiraClient) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

func (c *JiraClient) lookupAccountID(ctx context.Context, email string) (string, error) {
	endpoint := fmt.Sprintf("%s/rest/api/3/user/search?query=%s", c.baseURL, url.QueryEscape(email))

	code, body, err := c.do(ctx, fiber.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		return "", fmt.Errorf("user search returned %d", code)
	}

	var users []struct {
		AccountID string `json:"accountId"`
	}
	if err := json.Unmarshal(body, &users); err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", nil
	}
	return users[0].AccountID, nil
}

// do performs one tracker call with basic auth and the configured timeout.
func (c *JiraClient) do(ctx context.Context, method, endpoint string, payload any) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	agent := fiber.AcquireAgent()
	agent.Timeout(c.timeout)
	agent.BasicAuth(c.email, c.token)
	if payload != nil {
		agent.JSON(payload)
	}

	req := agent.Request()
	req.Header.SetMethod(method)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	req.SetRequestURI(endpoint)

	if err := agent.Parse(); err != nil {
		return 0, nil, err
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, errs[0]
	}
	return code, body, nil
}

func upstreamStatus(op string, code int, body []byte) error {
	detail := strings.TrimSpace(string(body))
	if len(detail) > 512 {
		detail = detail[:512]
	}
	var inner error
	if detail != "" {
		inner = errors.New(detail)
	}
	return util.NewUpstreamError(fmt.Sprintf("%s: tracker returned %d", op, code), inner)
}
