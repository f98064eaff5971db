package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Tracker TrackerConfig
	Chat    ChatConfig
	Actions ActionsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
}

// TrackerConfig holds issue tracker connection values.
type TrackerConfig struct {
	BaseURL            string
	Email              string
	APIToken           string
	ProjectKey         string
	AssigneeEmail      string
	TimeoutSeconds     int
	RegisterWebhookURL string
}

// ChatConfig selects the chat platform and its credentials.
type ChatConfig struct {
	Platform        string
	WebhookURL      string
	TelegramToken   string
	BroadcastChatID string
}

// ActionsConfig tunes the customer-account action backend.
type ActionsConfig struct {
	AllowedBetaFeatures []string
}

// Chat platform identifiers.
const (
	PlatformConsole  = "console"
	PlatformWebhook  = "webhook"
	PlatformTelegram = "telegram"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	apiToken := os.Getenv("ATLASSIAN_API_TOKEN")
	if apiToken == "" {
		apiToken = os.Getenv("SECRET_ATLASSIAN_API_TOKEN")
	}

	platform := strings.ToLower(getEnv("CHAT_PLATFORM", PlatformConsole))
	switch platform {
	case PlatformConsole, PlatformWebhook, PlatformTelegram:
	default:
		return nil, fmt.Errorf("invalid CHAT_PLATFORM %q", platform)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "customer-support-bot"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3978"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Tracker: TrackerConfig{
			BaseURL:            strings.TrimRight(getEnv("ATLASSIAN_BASE_URL", "https://mockcompany.atlassian.net"), "/"),
			Email:              os.Getenv("ATLASSIAN_EMAIL"),
			APIToken:           apiToken,
			ProjectKey:         getEnv("JIRA_PROJECT_KEY", "CST"),
			AssigneeEmail:      os.Getenv("JIRA_ASSIGNEE_EMAIL"),
			TimeoutSeconds:     getEnvAsInt("TRACKER_TIMEOUT_SECONDS", 15),
			RegisterWebhookURL: os.Getenv("TRACKER_REGISTER_WEBHOOK_URL"),
		},
		Chat: ChatConfig{
			Platform:        platform,
			WebhookURL:      os.Getenv("CHAT_WEBHOOK_URL"),
			TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
			BroadcastChatID: os.Getenv("CHAT_BROADCAST_CHAT_ID"),
		},
		Actions: ActionsConfig{
			AllowedBetaFeatures: getEnvAsList("BETA_FEATURES", defaultBetaFeatures()),
		},
	}

	if cfg.Chat.Platform == PlatformWebhook && cfg.Chat.WebhookURL == "" {
		return nil, fmt.Errorf("CHAT_PLATFORM=webhook requires CHAT_WEBHOOK_URL")
	}
	if cfg.Chat.Platform == PlatformTelegram && cfg.Chat.TelegramToken == "" {
		return nil, fmt.Errorf("CHAT_PLATFORM=telegram requires TELEGRAM_TOKEN")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// MockMode reports whether the tracker runs without real credentials.
func (t TrackerConfig) MockMode() bool {
	return t.APIToken == "" || t.Email == ""
}

// Timeout returns the per-call tracker timeout.
func (t TrackerConfig) Timeout() time.Duration {
	if t.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(t.TimeoutSeconds) * time.Second
}

func defaultBetaFeatures() []string {
	return []string{"Multitenancy", "Azure", "Copilot", "FBP", "OrgOnboarding", "MAP", "Terraform"}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
