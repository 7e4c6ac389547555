package events

import (
	"context"
	"sync"

	"lottoledger/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the ledger
type EventType string

const (
	EventTypeTicketRecorded  EventType = "ticket_recorded"
	EventTypeTicketScored    EventType = "ticket_scored"
	EventTypeRoundReconciled EventType = "round_reconciled"
	EventTypeResultsConsumed EventType = "results_consumed"
	EventTypeRoundAssigned   EventType = "round_assigned"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// TicketRecordedEvent is raised when a purchase lands in the ledger
type TicketRecordedEvent struct {
	TicketID    int64
	RoundNumber int64
	Mode        models.TicketMode
	Cost        int64
	Unresolved  bool
}

func (e TicketRecordedEvent) Type() EventType {
	return EventTypeTicketRecorded
}

// TicketScoredEvent is raised once per ticket leaving pending
type TicketScoredEvent struct {
	TicketID    int64
	RoundNumber int64
	Rank        models.Rank
	Amount      int64
}

func (e TicketScoredEvent) Type() EventType {
	return EventTypeTicketScored
}

// RoundReconciledEvent is raised after a round's pending tickets are scored
type RoundReconciledEvent struct {
	RoundNumber int64
	Scored      int
	Deferred    int
	TotalWin    int64
}

func (e RoundReconciledEvent) Type() EventType {
	return EventTypeRoundReconciled
}

// ResultsConsumedEvent is raised when the cursor surfaces a non-empty batch
type ResultsConsumedEvent struct {
	TotalGames int
	TotalCost  int64
	TotalWin   int64
}

func (e ResultsConsumedEvent) Type() EventType {
	return EventTypeResultsConsumed
}

// RoundAssignedEvent is raised when an unassigned ticket gets its round
type RoundAssignedEvent struct {
	TicketID    int64
	RoundNumber int64
}

func (e RoundAssignedEvent) Type() EventType {
	return EventTypeRoundAssigned
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	wg       sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers. Handlers run on
// their own goroutines; a panicking handler is logged and dropped.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started so far has returned
func (b *Bus) Wait() {
	b.wg.Wait()
}

// TransactionalBus holds events raised inside a unit of work until the
// transaction commits, then flushes them to the underlying bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush() {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing transactional events")

	// Handlers must outlive the transaction's context
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
