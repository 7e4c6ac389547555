package service

import (
	"context"
	"fmt"

	"lottoledger/models"
)

// RecentPurchaseLimit is how many purchases the overview lists
const RecentPurchaseLimit = 10

// ledgerQueryService implements the LedgerQueryService interface
type ledgerQueryService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerQueryService creates the read-only ledger views
func NewLedgerQueryService(uowFactory UnitOfWorkFactory) LedgerQueryService {
	return &ledgerQueryService{uowFactory: uowFactory}
}

// GetOverview summarises the whole ledger regardless of what was shown
func (s *ledgerQueryService) GetOverview(ctx context.Context) (*models.LedgerOverview, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	overview, err := uow.TicketRepository().GetTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get totals: %w", err)
	}

	overview.RecentPurchases, err = uow.TicketRepository().ListRecent(ctx, RecentPurchaseLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent purchases: %w", err)
	}

	return overview, nil
}

// GetRoundDetails returns a round with every ticket bought for it
func (s *ledgerQueryService) GetRoundDetails(ctx context.Context, roundNumber int64) (*models.RoundDetails, error) {
	if roundNumber <= 0 {
		return nil, fmt.Errorf("%w: round number must be positive, got %d", models.ErrInvalidInput, roundNumber)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := uow.RoundRepository().GetByNumber(ctx, roundNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}

	tickets, err := uow.TicketRepository().ListByRound(ctx, roundNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}

	if round == nil && len(tickets) == 0 {
		return nil, fmt.Errorf("round %d: %w", roundNumber, models.ErrNotFound)
	}

	return &models.RoundDetails{Round: round, Tickets: tickets}, nil
}

// GetPendingTickets returns every ticket still awaiting its draw
func (s *ledgerQueryService) GetPendingTickets(ctx context.Context) ([]*models.Ticket, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tickets, err := uow.TicketRepository().ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending tickets: %w", err)
	}

	return tickets, nil
}
