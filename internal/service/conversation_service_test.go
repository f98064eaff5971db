package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/domain"
	"github.com/spec-kit/support-bot/internal/events"
	"github.com/spec-kit/support-bot/internal/notify"
	"github.com/spec-kit/support-bot/internal/observability"
	"github.com/spec-kit/support-bot/internal/service"
	"github.com/spec-kit/support-bot/internal/tracker"
)

// fakeTracker records calls and answers from canned state.
type fakeTracker struct {
	mu          sync.Mutex
	createCalls []tracker.TicketInput
	comments    map[string][]string
	failCreate  error
	lastComment string
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{comments: make(map[string][]string)}
}

func (f *fakeTracker) CreateTicket(_ context.Context, in tracker.TicketInput) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	f.createCalls = append(f.createCalls, in)
	key := fmt.Sprintf("CST-%d", 100+len(f.createCalls))
	return &domain.Ticket{
		Key:     key,
		URL:     f.BrowseURL(key),
		Summary: in.Summary,
		Status:  domain.TicketStatusPending,
		Labels:  in.Labels,
	}, nil
}

func (f *fakeTracker) TransitionStatus(context.Context, string, string) error { return nil }

func (f *fakeTracker) AddComment(_ context.Context, key, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments[key] = append(f.comments[key], body)
	return nil
}

func (f *fakeTracker) LatestComment(context.Context, string) (string, error) {
	return f.lastComment, nil
}

func (f *fakeTracker) TicketStatus(context.Context, string) (string, error) {
	return domain.TicketStatusPending, nil
}

func (f *fakeTracker) BrowseURL(key string) string {
	return "https://tracker.example.com/browse/" + key
}

func (f *fakeTracker) creates() []tracker.TicketInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tracker.TicketInput{}, f.createCalls...)
}

// recordingSender captures outbound chat notifications.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

type sentMessage struct {
	ref  notify.ConversationRef
	text string
}

func (r *recordingSender) Send(_ context.Context, ref notify.ConversationRef, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMessage{ref: ref, text: text})
	return nil
}

func (r *recordingSender) messages() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMessage{}, r.sent...)
}

var testNow = time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)

func newConversationService(t *testing.T, tr tracker.Client, registry *notify.Registry) *service.ConversationService {
	t.Helper()
	return service.NewConversationService(service.ConversationDependencies{
		Tracker:    tr,
		Registry:   registry,
		Dispatcher: events.NewInMemoryDispatcher(),
		Metrics:    observability.NewMetrics(),
		Logger:     zap.NewNop(),
		Now:        func() time.Time { return testNow },
	})
}

func TestHandleMessage_TrialExtensionCreatesExactlyOneTicket(t *testing.T) {
	tr := newFakeTracker()
	registry := notify.NewRegistry(notify.ConversationRef{})
	svc := newConversationService(t, tr, registry)

	reply := svc.HandleMessage(context.Background(), service.ChatMessage{
		Conversation: notify.ConversationRef{Platform: "api", ID: "conv-1"},
		Text:         "extend trial for tj@gmail.com to 20th june 2025",
	})

	creates := tr.creates()
	require.Len(t, creates, 1)
	assert.Equal(t, "Trial Extension Request - tj@gmail.com", creates[0].Summary)
	assert.Contains(t, creates[0].Description, "New Trial End Date: 2025-06-20")
	assert.Contains(t, creates[0].Labels, "trial-extension")
	assert.Equal(t, "P2", creates[0].Priority)

	assert.Equal(t, "CST-101", reply.TicketKey)
	assert.Contains(t, reply.Text, "CST-101")

	// the reply conversation is bound for later status callbacks
	ref, ok := registry.Lookup("CST-101")
	require.True(t, ok)
	assert.Equal(t, "conv-1", ref.ID)
}

func TestHandleMessage_ValidationFailureNeverTouchesTracker(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"bad email", "extend trial for not-an-email to tomorrow", "email"},
		{"unparseable date", "extend trial for tj@gmail.com to whenever suits", "unrecognized date"},
		{"past date", "extend trial for tj@gmail.com to 2020-01-01", "future"},
		{"too far out", "extend trial for tj@gmail.com to 2031-01-01", "too far"},
		{"illegal downgrade", "upgrade tj@gmail.com from enterprise to standard", "cannot upgrade"},
		{"same plan", "upgrade tj@gmail.com from trial to trial", "cannot upgrade"},
		{"no features", "enable beta features for tj@gmail.com", "feature"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := newFakeTracker()
			svc := newConversationService(t, tr, notify.NewRegistry(notify.ConversationRef{}))

			reply := svc.HandleMessage(context.Background(), service.ChatMessage{Text: tc.text})

			assert.Empty(t, tr.creates(), "validation failures must not create tickets")
			assert.Empty(t, reply.TicketKey)
			assert.Contains(t, strings.ToLower(reply.Text), tc.want)
		})
	}
}

func TestHandleMessage_UnrecognizedListsCapabilities(t *testing.T) {
	tr := newFakeTracker()
	svc := newConversationService(t, tr, notify.NewRegistry(notify.ConversationRef{}))

	reply := svc.HandleMessage(context.Background(), service.ChatMessage{Text: "sing me a song"})

	assert.Empty(t, tr.creates())
	assert.Contains(t, reply.Text, "extend a trial")
}

func TestHandleMessage_UpstreamFailureApologizes(t *testing.T) {
	tr := newFakeTracker()
	tr.failCreate = errors.New("tracker unreachable")
	registry := notify.NewRegistry(notify.ConversationRef{})
	svc := newConversationService(t, tr, registry)

	reply := svc.HandleMessage(context.Background(), service.ChatMessage{
		Conversation: notify.ConversationRef{Platform: "api", ID: "conv-9"},
		Text:         "extend trial for tj@gmail.com to 20th june 2025",
	})

	assert.Empty(t, reply.TicketKey)
	assert.Contains(t, reply.Text, "Nothing was created")
	_, ok := registry.Lookup("CST-101")
	assert.False(t, ok)
}

func TestHandleMessage_SubscriptionUpgrade(t *testing.T) {
	tr := newFakeTracker()
	svc := newConversationService(t, tr, notify.NewRegistry(notify.ConversationRef{}))

	reply := svc.HandleMessage(context.Background(), service.ChatMessage{
		Text: "upgrade tj@gmail.com from trial to standard effective from 2025-03-01",
	})

	creates := tr.creates()
	require.Len(t, creates, 1)
	assert.Contains(t, creates[0].Description, "Current Plan: trial")
	assert.Contains(t, creates[0].Description, "Target Plan: standard")
	assert.Contains(t, creates[0].Description, "Effective Date: 2025-03-01")
	assert.NotEmpty(t, reply.TicketKey)
}

func TestHandleMessage_SignupApprovalDefaultsToTrialPlan(t *testing.T) {
	tr := newFakeTracker()
	svc := newConversationService(t, tr, notify.NewRegistry(notify.ConversationRef{}))

	reply := svc.HandleMessage(context.Background(), service.ChatMessage{
		Text: "approve signup for jane@acme.com from Acme Corp",
	})

	creates := tr.creates()
	require.Len(t, creates, 1)
	assert.Contains(t, creates[0].Description, "Plan Type: trial")
	assert.Contains(t, creates[0].Description, "Company: Acme Corp")
	assert.NotEmpty(t, reply.TicketKey)
}
