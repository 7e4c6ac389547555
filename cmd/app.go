package cmd

import (
	"context"
	"fmt"
	"os"

	"lottoledger/config"
	"lottoledger/database"
	"lottoledger/events"
	"lottoledger/infrastructure"
	"lottoledger/repository"
	"lottoledger/service"

	log "github.com/sirupsen/logrus"
)

// app holds the wired ledger for one CLI invocation
type app struct {
	cfg        *config.Config
	db         *database.DB
	eventBus   *events.Bus
	uowFactory service.UnitOfWorkFactory
}

// openApp loads configuration and connects to the database
func openApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg := config.Get()
	setupLogging(cfg, opts.Verbose)

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	return &app{
		cfg:        cfg,
		db:         db,
		eventBus:   eventBus,
		uowFactory: repository.NewUnitOfWorkFactory(db, eventBus),
	}, nil
}

// Close waits for event handlers and closes the pool
func (a *app) Close() {
	a.eventBus.Wait()
	a.db.Close()
}

func (a *app) reconciler() service.ReconciliationService {
	results := infrastructure.NewDHLotteryResultsProvider(a.cfg.ResultsAPIURL, a.cfg.ResultsTimeout)

	var coarse service.CoarseOutcomeProvider
	if a.cfg.LedgerEnabled() {
		coarse = infrastructure.NewLedgerOutcomeProvider(a.cfg.LedgerAPIURL, a.cfg.LedgerSessionCookie, a.cfg.ResultsTimeout)
	} else {
		log.Debug("Purchase ledger not configured, unresolved tickets stay pending")
	}

	return service.NewReconciliationService(a.uowFactory, results, coarse, service.NewScoringEngine(a.cfg.Prizes))
}

// notifier fans out to every configured channel. natsClient may be nil.
func (a *app) notifier(natsClient *infrastructure.NATSClient) service.Notifier {
	broadcast := infrastructure.NewBroadcastNotifier()

	if a.cfg.DiscordWebhookURL != "" {
		discord, err := infrastructure.NewDiscordWebhookNotifier(a.cfg.DiscordWebhookURL)
		if err != nil {
			log.WithError(err).Warn("Discord notifications disabled")
		} else {
			broadcast.Add("discord", discord)
		}
	}

	if a.cfg.TelegramBotToken != "" {
		broadcast.Add("telegram", infrastructure.NewTelegramNotifier(
			infrastructure.DefaultTelegramAPIURL, a.cfg.TelegramBotToken, a.cfg.TelegramChatID, a.cfg.ResultsTimeout))
	}

	if natsClient != nil {
		broadcast.Add("nats", infrastructure.NewNATSNotifier(natsClient, a.cfg.NATSNotifySubject))
	}

	if broadcast.Len() == 0 {
		return nil
	}
	return broadcast
}

// setupLogging configures logrus from the environment
func setupLogging(cfg *config.Config, verbose bool) {
	log.SetOutput(os.Stderr)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}
