package application

import (
	"context"
	"fmt"
	"time"

	"lottoledger/infrastructure/observability"
	"lottoledger/models"
	"lottoledger/service"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// ReconciliationWorker runs reconciliation passes on a cron schedule and
// reports each pass through the notifier
type ReconciliationWorker struct {
	reconciler service.ReconciliationService
	cursor     service.ResultsCursor
	notifier   service.Notifier // optional
	metrics    *observability.MetricsProvider
	schedule   string
	location   *time.Location
	announce   bool
}

// WorkerOptions configures a ReconciliationWorker
type WorkerOptions struct {
	Schedule string
	Location *time.Location
	// Announce consumes unshown results after each pass and sends them
	Announce bool
}

// NewReconciliationWorker creates a new reconciliation worker
func NewReconciliationWorker(
	reconciler service.ReconciliationService,
	cursor service.ResultsCursor,
	notifier service.Notifier,
	metrics *observability.MetricsProvider,
	opts WorkerOptions,
) *ReconciliationWorker {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &ReconciliationWorker{
		reconciler: reconciler,
		cursor:     cursor,
		notifier:   notifier,
		metrics:    metrics,
		schedule:   opts.Schedule,
		location:   loc,
		announce:   opts.Announce,
	}
}

// RunOnce reconciles every round holding pending tickets. Delivery
// failures are logged and never fail the pass.
func (w *ReconciliationWorker) RunOnce(ctx context.Context, trigger string) (*models.ReconcilePassResult, error) {
	done := w.metrics.MeasureReconcilePass(trigger)

	pass, err := w.reconciler.ReconcileAll(ctx)
	if err != nil {
		done(0, 0, 1)
		w.notify(ctx, fmt.Sprintf("🚨 로또 당첨 확인 실패: %v", err))
		return nil, fmt.Errorf("failed to run reconciliation pass: %w", err)
	}
	done(len(pass.Rounds), len(pass.Unavailable), len(pass.Failed))

	log.WithFields(log.Fields{
		"passID":      pass.PassID,
		"trigger":     trigger,
		"rounds":      len(pass.Rounds),
		"scored":      pass.TotalScored(),
		"unavailable": len(pass.Unavailable),
		"failed":      len(pass.Failed),
	}).Info("Completed reconciliation pass")

	if pass.TotalScored() > 0 || len(pass.Failed) > 0 {
		w.notify(ctx, FormatReconcileSummary(pass))
	}

	if w.announce {
		if err := w.announceResults(ctx); err != nil {
			log.WithError(err).Error("Failed to announce new results")
		}
	}

	return pass, nil
}

// announceResults consumes the unshown results and sends them. The batch is
// marked shown before delivery, so a failed send is not retried.
func (w *ReconciliationWorker) announceResults(ctx context.Context) error {
	batch, err := w.cursor.ConsumeNewResults(ctx)
	if err != nil {
		return err
	}
	if batch.IsEmpty() {
		return nil
	}

	w.metrics.RecordResultsSurfaced(batch.TotalGames)
	w.notify(ctx, FormatResultsBatch(batch))
	return nil
}

func (w *ReconciliationWorker) notify(ctx context.Context, message string) {
	if w.notifier == nil {
		return
	}
	err := w.notifier.Notify(ctx, message)
	w.metrics.RecordNotification("broadcast", err)
	if err != nil {
		log.WithError(err).Warn("Failed to deliver reconciliation notification")
	}
}

// Start schedules reconciliation passes and returns a stop function that
// waits for a running pass to finish
func (w *ReconciliationWorker) Start(ctx context.Context) (func(), error) {
	scheduler := cron.New(cron.WithLocation(w.location))

	_, err := scheduler.AddFunc(w.schedule, func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.RunOnce(ctx, observability.TriggerSchedule); err != nil {
			log.WithError(err).Error("Scheduled reconciliation failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", w.schedule, err)
	}

	scheduler.Start()
	log.WithFields(log.Fields{
		"schedule": w.schedule,
		"timezone": w.location.String(),
		"next":     scheduler.Entries()[0].Next,
	}).Info("Reconciliation worker started")

	return func() {
		log.Info("Reconciliation worker shutting down...")
		<-scheduler.Stop().Done()
	}, nil
}
