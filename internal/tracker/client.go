package tracker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/config"
	"github.com/spec-kit/support-bot/internal/domain"
)

// TicketInput is everything needed to open a workflow ticket.
type TicketInput struct {
	Project       string
	Summary       string
	Description   []string
	IssueType     string
	Priority      string
	Labels        []string
	AssigneeEmail string
}

// Client talks to the issue tracker. The implementation is selected once at
// startup; the mock never performs network calls.
type Client interface {
	CreateTicket(ctx context.Context, in TicketInput) (*domain.Ticket, error)
	TransitionStatus(ctx context.Context, key, status string) error
	AddComment(ctx context.Context, key, body string) error
	LatestComment(ctx context.Context, key string) (string, error)
	TicketStatus(ctx context.Context, key string) (string, error)
	BrowseURL(key string) string
}

// New selects the tracker implementation from configuration.
func New(cfg config.TrackerConfig, logger *zap.Logger) Client {
	if cfg.MockMode() {
		return NewMockClient(cfg, logger)
	}
	return NewJiraClient(cfg, logger)
}
