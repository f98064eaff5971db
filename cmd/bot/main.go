package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	httptransport "github.com/spec-kit/support-bot/internal/api/http"
	"github.com/spec-kit/support-bot/internal/api/http/handlers"
	"github.com/spec-kit/support-bot/internal/config"
	"github.com/spec-kit/support-bot/internal/events"
	"github.com/spec-kit/support-bot/internal/notify"
	"github.com/spec-kit/support-bot/internal/observability"
	"github.com/spec-kit/support-bot/internal/service"
	"github.com/spec-kit/support-bot/internal/tracker"
	"github.com/spec-kit/support-bot/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	trackerClient := tracker.New(cfg.Tracker, logger)
	if cfg.Tracker.MockMode() {
		logger.Warn("tracker credentials absent, running in mock mode")
	}

	registry := notify.NewRegistry(notify.ConversationRef{
		Platform: cfg.Chat.Platform,
		ID:       cfg.Chat.BroadcastChatID,
	})

	var teleBot *tele.Bot
	if cfg.Chat.Platform == config.PlatformTelegram {
		teleBot, err = worker.NewTelegramBot(cfg.Chat, logger)
		if err != nil {
			logger.Fatal("failed to connect telegram", zap.Error(err))
		}
	}

	sender, err := notify.NewSender(cfg.Chat, teleBot, logger)
	if err != nil {
		logger.Fatal("failed to init chat platform", zap.Error(err))
	}

	actions := service.NewActionsService(cfg.Actions, logger)

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

	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	var telegramWorker *worker.TelegramWorker
	if teleBot != nil {
		telegramWorker = worker.NewTelegramWorker(teleBot, conversation, logger)
		go telegramWorker.Start()
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Tracker.MockMode()),
		Webhook:  handlers.NewWebhookHandler(webhooks, logger),
		Messages: handlers.NewMessagesHandler(conversation),
		Actions:  handlers.NewActionsHandler(actions),
	})

	// the callback carries no credentials; known gap, flagged at startup
	logger.Warn("tracker webhook endpoint is unauthenticated", zap.String("path", "/webhook/jira"))

	registerTrackerWebhook(cfg.Tracker, trackerClient, logger)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if telegramWorker != nil {
		telegramWorker.Stop()
	}
	_ = app.Shutdown()
}

// registerTrackerWebhook subscribes the bot's callback URL with the tracker.
// Only the real client can do this; failure is logged, not fatal, since the
// subscription may already exist from a previous deployment.
func registerTrackerWebhook(cfg config.TrackerConfig, client tracker.Client, logger *zap.Logger) {
	if cfg.RegisterWebhookURL == "" {
		return
	}
	jira, ok := client.(*tracker.JiraClient)
	if !ok {
		logger.Info("skipping webhook registration in mock mode")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	manager := tracker.NewWebhookManager(jira)
	if err := manager.EnsureRegistered(ctx, cfg.RegisterWebhookURL); err != nil {
		logger.Warn("webhook registration failed",
			zap.String("url", cfg.RegisterWebhookURL),
			zap.Error(err),
		)
		return
	}
	logger.Info("tracker webhook registered", zap.String("url", cfg.RegisterWebhookURL))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
