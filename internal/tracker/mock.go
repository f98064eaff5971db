package tracker

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/config"
	"github.com/spec-kit/support-bot/internal/domain"
	"github.com/spec-kit/support-bot/pkg/util"
)

// MockClient satisfies Client without a network. Keys are synthetic and every
// call logs the payload it would have sent.
type MockClient struct {
	baseURL string
	project string
	logger  *zap.Logger

	mu       sync.Mutex
	statuses map[string]string
	comments map[string][]string
}

// NewMockClient constructs the offline tracker.
func NewMockClient(cfg config.TrackerConfig, logger *zap.Logger) *MockClient {
	return &MockClient{
		baseURL:  cfg.BaseURL,
		project:  cfg.ProjectKey,
		logger:   logger,
		statuses: make(map[string]string),
		comments: make(map[string][]string),
	}
}

func (c *MockClient) CreateTicket(ctx context.Context, in TicketInput) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	project := in.Project
	if project == "" {
		project = c.project
	}
	key := syntheticKey(project)

	c.mu.Lock()
	c.statuses[key] = domain.TicketStatusPending
	c.mu.Unlock()

	c.logger.Info("mock ticket created",
		zap.String("key", key),
		zap.String("summary", in.Summary),
		zap.Strings("description", in.Description),
		zap.Strings("labels", in.Labels),
		zap.String("priority", in.Priority),
	)

	return &domain.Ticket{
		Key:           key,
		URL:           c.BrowseURL(key),
		Summary:       in.Summary,
		Status:        domain.TicketStatusPending,
		Labels:        in.Labels,
		AssigneeEmail: in.AssigneeEmail,
	}, nil
}

func (c *MockClient) TransitionStatus(ctx context.Context, key, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.statuses[key] = status
	c.mu.Unlock()
	c.logger.Info("mock ticket transitioned", zap.String("key", key), zap.String("status", status))
	return nil
}

func (c *MockClient) AddComment(ctx context.Context, key, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.comments[key] = append(c.comments[key], body)
	c.mu.Unlock()
	c.logger.Info("mock comment added", zap.String("key", key), zap.String("body", body))
	return nil
}

func (c *MockClient) LatestComment(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	all := c.comments[key]
	if len(all) == 0 {
		return "", nil
	}
	return all[len(all)-1], nil
}

func (c *MockClient) TicketStatus(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.statuses[key]
	if !ok {
		return "", util.NewNotFound("ticket", map[string]any{"key": key})
	}
	return status, nil
}

func (c *MockClient) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

// syntheticKey fabricates a plausible issue key like CST-4821.
func syntheticKey(project string) string {
	u := uuid.New()
	n := binary.BigEndian.Uint32(u[0:4])%9000 + 1000
	return fmt.Sprintf("%s-%d", project, n)
}
