package service

import (
	"context"

	"lottoledger/events"
	"lottoledger/models"
)

// RoundRepository defines the interface for round data access
type RoundRepository interface {
	// Upsert inserts the round or overwrites the stored record with the same number
	Upsert(ctx context.Context, round *models.Round) error

	// GetByNumber retrieves a round, returning nil if it was never stored
	GetByNumber(ctx context.Context, roundNumber int64) (*models.Round, error)

	// GetByNumbers retrieves several rounds keyed by round number
	GetByNumbers(ctx context.Context, roundNumbers []int64) (map[int64]*models.Round, error)
}

// TicketRepository defines the interface for purchase ledger access
type TicketRepository interface {
	// Create stores a new pending, unshown ticket and fills in its ID
	Create(ctx context.Context, ticket *models.Ticket) error

	// GetByID retrieves a ticket, returning nil if it does not exist
	GetByID(ctx context.Context, id int64) (*models.Ticket, error)

	// PendingByRound returns the pending tickets of a round
	PendingByRound(ctx context.Context, roundNumber int64) ([]*models.Ticket, error)

	// RecordOutcome scores a pending ticket.
	// Returns models.ErrNotFound for an unknown ticket and
	// models.ErrAlreadyScored without writing if it already left pending.
	RecordOutcome(ctx context.Context, id int64, rank models.Rank, amount int64) error

	// ConsumeUnshown returns every scored, unshown ticket and marks it shown
	ConsumeUnshown(ctx context.Context) ([]*models.Ticket, error)

	// LifetimeShown returns every ticket already shown to the user
	LifetimeShown(ctx context.Context) ([]*models.Ticket, error)

	// AssignRound attaches a round to a pending ticket still at round 0
	AssignRound(ctx context.Context, id int64, roundNumber int64) error

	// RoundsWithPending returns assigned rounds holding pending tickets, ascending
	RoundsWithPending(ctx context.Context) ([]int64, error)

	// ListPending returns every pending ticket, newest first
	ListPending(ctx context.Context) ([]*models.Ticket, error)

	// ListByRound returns all tickets of a round, highest win first
	ListByRound(ctx context.Context, roundNumber int64) ([]*models.Ticket, error)

	// ListRecent returns the most recent purchases
	ListRecent(ctx context.Context, limit int) ([]*models.Ticket, error)

	// GetTotals returns ledger-wide cost, win and pending count
	GetTotals(ctx context.Context) (*models.LedgerOverview, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	RoundRepository() RoundRepository
	TicketRepository() TicketRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// ResultsProvider fetches official draw numbers.
// Returns models.ErrResultsUnavailable when the round is not drawn yet
// and models.ErrProviderError when the provider cannot be reached.
type ResultsProvider interface {
	FetchOfficialNumbers(ctx context.Context, roundNumber int64) (*models.OfficialResult, error)
}

// CoarseOutcomeProvider reports the win/no-win verdict the purchase
// ledger holds for a round of the product the ticket mode belongs to.
// Returns nil when no verdict is known yet.
type CoarseOutcomeProvider interface {
	FetchCoarseOutcome(ctx context.Context, roundNumber int64, mode models.TicketMode) (*models.CoarseOutcome, error)
}

// Notifier delivers a plain formatted message
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// ReconciliationService defines the interface for reconciliation operations
type ReconciliationService interface {
	// ReconcileRound fetches the official numbers for one round and scores its pending tickets
	ReconcileRound(ctx context.Context, roundNumber int64) (*models.ReconcileResult, error)

	// ReconcileRounds reconciles several rounds in ascending order, skipping failures
	ReconcileRounds(ctx context.Context, roundNumbers []int64) (*models.ReconcilePassResult, error)

	// ReconcileAll reconciles every assigned round holding pending tickets
	ReconcileAll(ctx context.Context) (*models.ReconcilePassResult, error)
}

// ResultsCursor defines the interface for surfacing newly scored tickets
type ResultsCursor interface {
	// ConsumeNewResults returns the scored tickets not yet shown, exactly once
	ConsumeNewResults(ctx context.Context) (*models.ResultsBatch, error)
}

// LifetimeStatsService defines the interface for cumulative statistics
type LifetimeStatsService interface {
	GetLifetimeStats(ctx context.Context) (*models.LifetimeStats, error)
}

// PurchaseService defines the interface for recording purchases
type PurchaseService interface {
	// RecordPurchase validates a purchase report and stores it as a pending ticket
	RecordPurchase(ctx context.Context, record *models.PurchaseRecord) (*models.Ticket, error)

	// AssignRound attaches the round number to a ticket recorded without one
	AssignRound(ctx context.Context, ticketID int64, roundNumber int64) (*models.Ticket, error)
}

// LedgerQueryService defines the interface for read-only ledger views
type LedgerQueryService interface {
	GetOverview(ctx context.Context) (*models.LedgerOverview, error)
	GetRoundDetails(ctx context.Context, roundNumber int64) (*models.RoundDetails, error)
	GetPendingTickets(ctx context.Context) ([]*models.Ticket, error)
}
