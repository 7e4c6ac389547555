package repository

import (
	"context"
	"fmt"

	"lottoledger/database"
	"lottoledger/models"

	"github.com/jackc/pgx/v5"
)

const ticketColumns = `id, round_number, purchased_at, mode, numbers, cost, win_amount, win_rank, shown_to_user`

// TicketRepository implements the TicketRepository interface over the purchases table
type TicketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{q: db.Pool}
}

// newTicketRepositoryWithTx creates a new ticket repository with a transaction
func newTicketRepositoryWithTx(tx Queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

// Create stores a new pending, unshown ticket and fills in its ID
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	if ticket.RoundNumber < 0 {
		return fmt.Errorf("%w: round number must not be negative", models.ErrInvalidInput)
	}
	if ticket.Cost <= 0 {
		return fmt.Errorf("%w: cost must be positive", models.ErrInvalidInput)
	}
	if err := ticket.Numbers.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO purchases (round_number, purchased_at, mode, numbers, cost)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + ticketColumns

	created, err := scanTicket(r.q.QueryRow(ctx, query,
		ticket.RoundNumber,
		ticket.PurchasedAt,
		string(ticket.Mode),
		toInt32s(ticket.Numbers),
		ticket.Cost,
	))
	if err != nil {
		return fmt.Errorf("failed to create ticket for round %d: %w", ticket.RoundNumber, err)
	}

	*ticket = *created
	return nil
}

// GetByID retrieves a ticket, returning nil if it does not exist
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM purchases WHERE id = $1`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}

	return ticket, nil
}

// PendingByRound returns every pending ticket of a round in purchase order
func (r *TicketRepository) PendingByRound(ctx context.Context, roundNumber int64) ([]*models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM purchases
		WHERE round_number = $1 AND win_rank = 'pending'
		ORDER BY id ASC
	`

	tickets, err := r.queryTickets(ctx, query, roundNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending tickets for round %d: %w", roundNumber, err)
	}

	return tickets, nil
}

// RecordOutcome scores a pending ticket. The pending check and the write
// are one statement, so of two concurrent writers only the first lands.
func (r *TicketRepository) RecordOutcome(ctx context.Context, id int64, rank models.Rank, amount int64) error {
	if !rank.IsScored() {
		return fmt.Errorf("%w: %q is not a scored rank", models.ErrInvalidInput, rank)
	}
	if amount < 0 {
		return fmt.Errorf("%w: win amount must not be negative", models.ErrInvalidInput)
	}

	query := `
		UPDATE purchases
		SET win_rank = $2, win_amount = $3
		WHERE id = $1 AND win_rank = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, string(rank), amount)
	if err != nil {
		return fmt.Errorf("failed to record outcome for ticket %d: %w", id, err)
	}

	if result.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM purchases WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check ticket %d: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("ticket %d: %w", id, models.ErrNotFound)
	}
	return fmt.Errorf("ticket %d: %w", id, models.ErrAlreadyScored)
}

// ConsumeUnshown marks every scored, unshown ticket as shown and returns
// them. A concurrent caller blocks on the same rows and, once this
// statement commits, no longer matches them.
func (r *TicketRepository) ConsumeUnshown(ctx context.Context) ([]*models.Ticket, error) {
	query := `
		UPDATE purchases
		SET shown_to_user = TRUE
		WHERE win_rank <> 'pending' AND shown_to_user = FALSE
		RETURNING ` + ticketColumns

	tickets, err := r.queryTickets(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to consume unshown tickets: %w", err)
	}

	return tickets, nil
}

// LifetimeShown returns every ticket already shown to the user
func (r *TicketRepository) LifetimeShown(ctx context.Context) ([]*models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM purchases
		WHERE shown_to_user = TRUE
		ORDER BY id ASC
	`

	tickets, err := r.queryTickets(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get shown tickets: %w", err)
	}

	return tickets, nil
}

// AssignRound attaches a round to a pending ticket still at round 0
func (r *TicketRepository) AssignRound(ctx context.Context, id int64, roundNumber int64) error {
	if roundNumber <= 0 {
		return fmt.Errorf("%w: round number must be positive, got %d", models.ErrInvalidInput, roundNumber)
	}

	query := `
		UPDATE purchases
		SET round_number = $2
		WHERE id = $1 AND round_number = 0 AND win_rank = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, roundNumber)
	if err != nil {
		return fmt.Errorf("failed to assign round %d to ticket %d: %w", roundNumber, id, err)
	}

	if result.RowsAffected() > 0 {
		return nil
	}

	ticket, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case ticket == nil:
		return fmt.Errorf("ticket %d: %w", id, models.ErrNotFound)
	case !ticket.IsPending():
		return fmt.Errorf("ticket %d: %w", id, models.ErrAlreadyScored)
	default:
		return fmt.Errorf("%w: ticket %d already belongs to round %d", models.ErrInvalidInput, id, ticket.RoundNumber)
	}
}

// RoundsWithPending returns assigned rounds holding pending tickets, ascending
func (r *TicketRepository) RoundsWithPending(ctx context.Context) ([]int64, error) {
	query := `
		SELECT DISTINCT round_number
		FROM purchases
		WHERE win_rank = 'pending' AND round_number > 0
		ORDER BY round_number ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds with pending tickets: %w", err)
	}
	defer rows.Close()

	var rounds []int64
	for rows.Next() {
		var round int64
		if err := rows.Scan(&round); err != nil {
			return nil, fmt.Errorf("failed to scan round number: %w", err)
		}
		rounds = append(rounds, round)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate round numbers: %w", err)
	}

	return rounds, nil
}

// ListPending returns every pending ticket, newest round first
func (r *TicketRepository) ListPending(ctx context.Context) ([]*models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM purchases
		WHERE win_rank = 'pending'
		ORDER BY round_number DESC, purchased_at DESC, id DESC
	`

	tickets, err := r.queryTickets(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tickets: %w", err)
	}

	return tickets, nil
}

// ListByRound returns all tickets of a round, highest win first
func (r *TicketRepository) ListByRound(ctx context.Context, roundNumber int64) ([]*models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM purchases
		WHERE round_number = $1
		ORDER BY win_amount DESC, id ASC
	`

	tickets, err := r.queryTickets(ctx, query, roundNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for round %d: %w", roundNumber, err)
	}

	return tickets, nil
}

// ListRecent returns the most recent purchases
func (r *TicketRepository) ListRecent(ctx context.Context, limit int) ([]*models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM purchases
		ORDER BY purchased_at DESC, id DESC
		LIMIT $1
	`

	tickets, err := r.queryTickets(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tickets: %w", err)
	}

	return tickets, nil
}

// GetTotals returns ledger-wide cost, win and pending count, shown or not
func (r *TicketRepository) GetTotals(ctx context.Context) (*models.LedgerOverview, error) {
	query := `
		SELECT
			COALESCE(SUM(cost), 0)::BIGINT,
			COALESCE(SUM(win_amount) FILTER (WHERE win_rank NOT IN ('pending', 'no-win')), 0)::BIGINT,
			COUNT(*) FILTER (WHERE win_rank = 'pending')
		FROM purchases
	`

	var overview models.LedgerOverview
	var pending int64
	if err := r.q.QueryRow(ctx, query).Scan(&overview.TotalCost, &overview.TotalWin, &pending); err != nil {
		return nil, fmt.Errorf("failed to get ledger totals: %w", err)
	}

	overview.PendingGames = int(pending)
	overview.NetProfit = overview.TotalWin - overview.TotalCost
	return &overview, nil
}

func (r *TicketRepository) queryTickets(ctx context.Context, query string, args ...any) ([]*models.Ticket, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var (
		ticket  models.Ticket
		mode    string
		rank    string
		numbers []int32
	)

	err := row.Scan(
		&ticket.ID,
		&ticket.RoundNumber,
		&ticket.PurchasedAt,
		&mode,
		&numbers,
		&ticket.Cost,
		&ticket.WinAmount,
		&rank,
		&ticket.ShownToUser,
	)
	if err != nil {
		return nil, err
	}

	ticket.Mode = models.TicketMode(mode)
	ticket.WinRank = models.Rank(rank)
	ticket.Numbers = models.TicketNumbers(fromInt32s(numbers))

	return &ticket, nil
}
