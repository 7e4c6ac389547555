package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lottoledger/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics for the ledger
type MetricsProvider struct {
	config        *config.Config
	reader        sdkmetric.Reader // set in tests to bypass exporters
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	reconcilePassesCounter     metric.Int64Counter
	reconcilePassDurationHist  metric.Float64Histogram
	roundsReconciledCounter    metric.Int64Counter
	roundsUnavailableCounter   metric.Int64Counter
	roundsFailedCounter        metric.Int64Counter
	ticketsRecordedCounter     metric.Int64Counter
	ticketsScoredCounter       metric.Int64Counter
	prizeAmountCounter         metric.Int64Counter
	resultsSurfacedCounter     metric.Int64Counter
	notificationsSentCounter   metric.Int64Counter
	natsMessagesReceivedCount  metric.Int64Counter
	natsMessagesPublishedCount metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// NewMetricsProviderWithReader creates an enabled provider that exports
// through reader instead of the configured exporter
func NewMetricsProviderWithReader(cfg *config.Config, reader sdkmetric.Reader) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
		reader: reader,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	reader := mp.reader
	if reader == nil {
		if !mp.config.OTelEnabled {
			log.Info("OpenTelemetry metrics disabled")
			mp.initialized = true
			return nil
		}

		exporter, err := mp.newExporter(ctx)
		if err != nil {
			return err
		}
		if exporter == nil {
			mp.initialized = true
			return nil
		}

		reader = sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMS)*time.Millisecond),
		)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)

	if mp.reader == nil {
		otel.SetMeterProvider(mp.meterProvider)
	}

	mp.meter = mp.meterProvider.Meter(meterName)

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// newExporter returns nil when export is switched off
func (mp *MetricsProvider) newExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")
		return exporter, nil

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelEndpoint).Info("Using OTLP metric exporter")
		return exporter, nil

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}
}

func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&mp.reconcilePassesCounter, ReconcilePassesTotal, "Total number of reconciliation passes", "1"},
		{&mp.roundsReconciledCounter, RoundsReconciledTotal, "Total number of rounds reconciled", "1"},
		{&mp.roundsUnavailableCounter, RoundsUnavailableTotal, "Total number of rounds skipped as not drawn", "1"},
		{&mp.roundsFailedCounter, RoundsFailedTotal, "Total number of rounds that failed to reconcile", "1"},
		{&mp.ticketsRecordedCounter, TicketsRecordedTotal, "Total number of tickets recorded", "1"},
		{&mp.ticketsScoredCounter, TicketsScoredTotal, "Total number of tickets scored", "1"},
		{&mp.prizeAmountCounter, PrizeAmountTotal, "Total prize amount credited to scored tickets", "KRW"},
		{&mp.resultsSurfacedCounter, ResultsSurfacedTotal, "Total number of results surfaced to the user", "1"},
		{&mp.notificationsSentCounter, NotificationsSentTotal, "Total number of notifications sent", "1"},
		{&mp.natsMessagesReceivedCount, NATSMessagesReceivedTotal, "Total number of NATS messages received", "1"},
		{&mp.natsMessagesPublishedCount, NATSMessagesPublishedTotal, "Total number of NATS messages published", "1"},
	}

	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name, metric.WithDescription(c.description), metric.WithUnit(c.unit))
		if err != nil {
			return fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
		*c.target = counter
	}

	var err error
	mp.reconcilePassDurationHist, err = mp.meter.Float64Histogram(
		ReconcilePassDuration,
		metric.WithDescription("Duration of reconciliation passes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return fmt.Errorf("failed to create reconcile pass duration histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordReconcilePass records one pass and its per-round outcome counts
func (mp *MetricsProvider) RecordReconcilePass(trigger string, rounds, unavailable, failed int, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	ctx := context.Background()
	status := StatusSuccess
	if failed > 0 {
		status = StatusFailure
	}

	mp.reconcilePassesCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String(LabelTrigger, trigger),
		attribute.String(LabelStatus, status),
	))
	mp.reconcilePassDurationHist.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(LabelTrigger, trigger),
	))
	mp.roundsReconciledCounter.Add(ctx, int64(rounds))
	mp.roundsUnavailableCounter.Add(ctx, int64(unavailable))
	mp.roundsFailedCounter.Add(ctx, int64(failed))
}

// MeasureReconcilePass returns a function that records the pass once its
// counts are known
func (mp *MetricsProvider) MeasureReconcilePass(trigger string) func(rounds, unavailable, failed int) {
	start := time.Now()
	return func(rounds, unavailable, failed int) {
		mp.RecordReconcilePass(trigger, rounds, unavailable, failed, time.Since(start))
	}
}

// RecordTicketRecorded records a purchase landing in the ledger
func (mp *MetricsProvider) RecordTicketRecorded(mode string) {
	if !mp.isEnabled() {
		return
	}

	mp.ticketsRecordedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelMode, mode)),
	)
}

// RecordTicketScored records a ticket leaving pending
func (mp *MetricsProvider) RecordTicketScored(rank string, amount int64) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.String(LabelRank, rank))
	mp.ticketsScoredCounter.Add(context.Background(), 1, attrs)
	if amount > 0 {
		mp.prizeAmountCounter.Add(context.Background(), amount, attrs)
	}
}

// RecordResultsSurfaced records tickets returned by the results cursor
func (mp *MetricsProvider) RecordResultsSurfaced(count int) {
	if !mp.isEnabled() || count <= 0 {
		return
	}

	mp.resultsSurfacedCounter.Add(context.Background(), int64(count))
}

// RecordNotification records a delivery attempt on one channel
func (mp *MetricsProvider) RecordNotification(channel string, err error) {
	if !mp.isEnabled() {
		return
	}

	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	mp.notificationsSentCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(LabelChannel, channel),
		attribute.String(LabelStatus, status),
	))
}

// RecordNATSMessageReceived records a NATS message being received
func (mp *MetricsProvider) RecordNATSMessageReceived(subject string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesReceivedCount.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelSubject, subject)),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(subject string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesPublishedCount.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelSubject, subject)),
	)
}

// isEnabled checks if metrics are enabled and initialized. Safe on a nil provider.
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider, nil before initialization
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
