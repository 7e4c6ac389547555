package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"lottoledger/database"
	"lottoledger/models"
)

const (
	// DefaultResultsAPIURL is the official draw results endpoint
	DefaultResultsAPIURL = "https://www.dhlottery.co.kr/common.do"
	// DefaultLedgerAPIURL is the account purchase ledger endpoint
	DefaultLedgerAPIURL = "https://www.dhlottery.co.kr/mypage/selectMyLotteryledger.do"
	// DefaultReconcileSchedule fires Saturday 21:00, after the 20:45 draw broadcast
	DefaultReconcileSchedule = "0 21 * * 6"
	DefaultScheduleTimezone  = "Asia/Seoul"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Results provider
	ResultsAPIURL  string
	ResultsTimeout time.Duration

	// Purchase ledger, source of coarse outcomes for unresolved tickets.
	// Disabled while no session cookie is configured.
	LedgerAPIURL        string
	LedgerSessionCookie string

	// Scoring
	Prizes models.PrizeTable

	// Reconciliation schedule
	ReconcileSchedule string
	ScheduleTimezone  string
	AnnounceResults   bool // consume and announce unshown results after each pass

	// NATS
	NATSServers         string
	NATSNotifySubject   string
	NATSPurchaseSubject string

	// Notifiers
	DiscordWebhookURL string
	TelegramBotToken  string
	TelegramChatID    string

	// Observability
	OTelEnabled          bool
	OTelExporterType     string // "console", "otlp" or "none"
	OTelEndpoint         string
	OTelServiceName      string
	OTelExportIntervalMS int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL combines the base URL and optional database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Location returns the timezone the reconcile schedule is evaluated in
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ScheduleTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule timezone %q: %w", c.ScheduleTimezone, err)
	}
	return loc, nil
}

// LedgerEnabled returns true when the purchase ledger can be queried
func (c *Config) LedgerEnabled() bool {
	return c.LedgerSessionCookie != ""
}

// NATSEnabled returns true when a NATS server list is configured
func (c *Config) NATSEnabled() bool {
	return c.NATSServers != ""
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		ResultsAPIURL:  getEnvWithDefault("RESULTS_API_URL", DefaultResultsAPIURL),
		ResultsTimeout: 10 * time.Second,

		LedgerAPIURL:        getEnvWithDefault("LEDGER_API_URL", DefaultLedgerAPIURL),
		LedgerSessionCookie: os.Getenv("LEDGER_SESSION_COOKIE"),

		Prizes: models.DefaultPrizeTable(),

		ReconcileSchedule: getEnvWithDefault("RECONCILE_SCHEDULE", DefaultReconcileSchedule),
		ScheduleTimezone:  getEnvWithDefault("SCHEDULE_TIMEZONE", DefaultScheduleTimezone),
		AnnounceResults:   os.Getenv("ANNOUNCE_RESULTS") == "true",

		NATSServers:         os.Getenv("NATS_SERVERS"),
		NATSNotifySubject:   getEnvWithDefault("NATS_NOTIFY_SUBJECT", "lotto.notifications"),
		NATSPurchaseSubject: getEnvWithDefault("NATS_PURCHASE_SUBJECT", "lotto.purchases"),

		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    os.Getenv("TELEGRAM_CHAT_ID"),

		OTelEnabled:          os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:     getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelEndpoint:         getEnvWithDefault("OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:      getEnvWithDefault("OTEL_SERVICE_NAME", "lotto-ledger"),
		OTelExportIntervalMS: 30000,

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if timeout := os.Getenv("RESULTS_TIMEOUT"); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid RESULTS_TIMEOUT %q: %w", timeout, err)
		}
		config.ResultsTimeout = parsed
	}

	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.OTelExportIntervalMS = parsed
		}
	}

	// PRIZE_RANK1..PRIZE_RANK5 override the nominal prize table
	for tier, rank := range []models.Rank{models.RankFirst, models.RankSecond, models.RankThird, models.RankFourth, models.RankFifth} {
		key := fmt.Sprintf("PRIZE_RANK%d", tier+1)
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		amount, err := strconv.ParseInt(strings.ReplaceAll(value, ",", ""), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		config.Prizes[rank] = amount
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if err := config.Prizes.Validate(); err != nil {
		return nil, err
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
		if (config.TelegramBotToken == "") != (config.TelegramChatID == "") {
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:       "test",
		ResultsAPIURL:     DefaultResultsAPIURL,
		ResultsTimeout:    time.Second,
		LedgerAPIURL:      DefaultLedgerAPIURL,
		Prizes:            models.DefaultPrizeTable(),
		ReconcileSchedule: DefaultReconcileSchedule,
		ScheduleTimezone:  DefaultScheduleTimezone,
		OTelExporterType:  "none",
		LogLevel:          "debug",
	}
}
