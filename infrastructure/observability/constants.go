package observability

const (
	MetricPrefix = "lotto_ledger"
	meterName    = "lotto-ledger"
)

// Metric names
const (
	// Reconciliation metrics
	ReconcilePassesTotal   = MetricPrefix + ".reconcile.passes_total"
	ReconcilePassDuration  = MetricPrefix + ".reconcile.pass_duration"
	RoundsReconciledTotal  = MetricPrefix + ".reconcile.rounds_total"
	RoundsUnavailableTotal = MetricPrefix + ".reconcile.rounds_unavailable_total"
	RoundsFailedTotal      = MetricPrefix + ".reconcile.rounds_failed_total"

	// Ticket metrics
	TicketsRecordedTotal = MetricPrefix + ".tickets.recorded_total"
	TicketsScoredTotal   = MetricPrefix + ".tickets.scored_total"
	PrizeAmountTotal     = MetricPrefix + ".tickets.prize_amount_total"
	ResultsSurfacedTotal = MetricPrefix + ".results.surfaced_total"

	// Delivery metrics
	NotificationsSentTotal     = MetricPrefix + ".notifications.sent_total"
	NATSMessagesReceivedTotal  = MetricPrefix + ".nats.messages_received_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelRank    = "rank"
	LabelMode    = "mode"
	LabelChannel = "channel"
	LabelStatus  = "status"
	LabelSubject = "subject"
	LabelTrigger = "trigger"
)

// Label values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"

	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)
