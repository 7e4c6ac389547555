package service

import (
	"context"
	"fmt"

	"lottoledger/models"
)

// lifetimeStatsService implements the LifetimeStatsService interface
type lifetimeStatsService struct {
	uowFactory UnitOfWorkFactory
}

// NewLifetimeStatsService creates the read-only aggregator over shown tickets
func NewLifetimeStatsService(uowFactory UnitOfWorkFactory) LifetimeStatsService {
	return &lifetimeStatsService{uowFactory: uowFactory}
}

// GetLifetimeStats folds every shown ticket into cumulative totals
func (s *lifetimeStatsService) GetLifetimeStats(ctx context.Context) (*models.LifetimeStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tickets, err := uow.TicketRepository().LifetimeShown(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get shown tickets: %w", err)
	}

	return AggregateLifetime(tickets), nil
}

// AggregateLifetime computes cumulative totals for a set of tickets
func AggregateLifetime(tickets []*models.Ticket) *models.LifetimeStats {
	stats := &models.LifetimeStats{RankCounts: models.RankCounts{}}
	for _, ticket := range tickets {
		stats.TotalGames++
		stats.TotalCost += ticket.Cost
		stats.TotalWin += ticket.WinAmount
		stats.RankCounts.Add(ticket.WinRank)
	}
	stats.NetProfit = stats.TotalWin - stats.TotalCost
	return stats
}
