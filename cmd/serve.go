package cmd

import (
	"context"
	"fmt"
	"time"

	"lottoledger/application"
	"lottoledger/infrastructure"
	"lottoledger/infrastructure/observability"
	"lottoledger/service"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ServeOptions holds flags for the serve command
type ServeOptions struct {
	*RootOptions
	RunNow bool
}

// NewServeCommand creates the serve command, which runs the scheduled
// reconciliation worker and the purchase subscription until interrupted
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled reconciliation and the purchase subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.RunNow, "run-now", false, "run one reconciliation pass at startup")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	log.Info("Starting lotto ledger...")

	a, err := openApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()
	log.Info("Database connection established successfully")

	if err := observability.InitializeGlobalMetrics(ctx, a.cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics := observability.GetMetrics()
	application.RegisterMetricsSubscriptions(a.eventBus, metrics)

	var natsClient *infrastructure.NATSClient
	if a.cfg.NATSEnabled() {
		natsClient = infrastructure.NewNATSClient(a.cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return err
		}
		defer natsClient.Close()

		subjects := []string{a.cfg.NATSPurchaseSubject, a.cfg.NATSNotifySubject}
		if err := natsClient.EnsureLedgerStream(subjects); err != nil {
			return err
		}

		subscriber := application.NewPurchaseSubscriber(service.NewPurchaseService(a.uowFactory), metrics)
		if err := subscriber.Register(natsClient, a.cfg.NATSPurchaseSubject); err != nil {
			return err
		}
	} else {
		log.Info("NATS not configured, purchase subscription disabled")
	}

	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}

	worker := application.NewReconciliationWorker(
		a.reconciler(),
		service.NewResultsCursor(a.uowFactory),
		a.notifier(natsClient),
		metrics,
		application.WorkerOptions{
			Schedule: a.cfg.ReconcileSchedule,
			Location: loc,
			Announce: a.cfg.AnnounceResults,
		},
	)

	if opts.RunNow {
		if _, err := worker.RunOnce(ctx, observability.TriggerManual); err != nil {
			log.WithError(err).Error("Startup reconciliation failed")
		}
	}

	stopWorker, err := worker.Start(ctx)
	if err != nil {
		return err
	}

	log.WithField("environment", a.cfg.Environment).Info("Lotto ledger is running")
	<-ctx.Done()

	log.Info("Shutting down lotto ledger...")
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Warn("Failed to flush metrics")
	}

	log.Info("Shutdown completed")
	return nil
}
