package application

import (
	"context"

	"lottoledger/events"
	"lottoledger/infrastructure/observability"
)

// RegisterMetricsSubscriptions feeds committed ledger events into metrics
func RegisterMetricsSubscriptions(bus *events.Bus, metrics *observability.MetricsProvider) {
	bus.Subscribe(events.EventTypeTicketRecorded, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.TicketRecordedEvent); ok {
			metrics.RecordTicketRecorded(string(e.Mode))
		}
	})

	bus.Subscribe(events.EventTypeTicketScored, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.TicketScoredEvent); ok {
			metrics.RecordTicketScored(string(e.Rank), e.Amount)
		}
	})
}
