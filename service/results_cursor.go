package service

import (
	"context"
	"fmt"
	"sort"

	"lottoledger/events"
	"lottoledger/models"

	log "github.com/sirupsen/logrus"
)

// resultsCursor implements the ResultsCursor interface
type resultsCursor struct {
	uowFactory UnitOfWorkFactory
}

// NewResultsCursor creates the destructive reader over scored, unshown tickets
func NewResultsCursor(uowFactory UnitOfWorkFactory) ResultsCursor {
	return &resultsCursor{uowFactory: uowFactory}
}

// ConsumeNewResults surfaces every scored ticket not yet shown and marks it
// shown in the same transaction. A second call with no reconciliation in
// between returns an empty batch.
func (c *resultsCursor) ConsumeNewResults(ctx context.Context) (*models.ResultsBatch, error) {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tickets, err := uow.TicketRepository().ConsumeUnshown(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to consume unshown tickets: %w", err)
	}

	batch := &models.ResultsBatch{RankCounts: models.RankCounts{}}
	if len(tickets) == 0 {
		return batch, nil
	}

	roundNumbers := make([]int64, 0)
	byRound := make(map[int64][]*models.Ticket)
	for _, ticket := range tickets {
		if _, ok := byRound[ticket.RoundNumber]; !ok {
			roundNumbers = append(roundNumbers, ticket.RoundNumber)
		}
		byRound[ticket.RoundNumber] = append(byRound[ticket.RoundNumber], ticket)
	}

	rounds, err := uow.RoundRepository().GetByNumbers(ctx, roundNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds for batch: %w", err)
	}

	sort.Slice(roundNumbers, func(i, j int) bool { return roundNumbers[i] > roundNumbers[j] })
	for _, roundNumber := range roundNumbers {
		roundTickets := byRound[roundNumber]
		sortByWin(roundTickets)
		batch.Rounds = append(batch.Rounds, &models.RoundBreakdown{
			Round:   rounds[roundNumber],
			Tickets: roundTickets,
		})
		for _, ticket := range roundTickets {
			batch.Tickets = append(batch.Tickets, ticket)
			batch.TotalGames++
			batch.TotalCost += ticket.Cost
			batch.TotalWin += ticket.WinAmount
			batch.RankCounts.Add(ticket.WinRank)
		}
	}

	uow.EventBus().Publish(events.ResultsConsumedEvent{
		TotalGames: batch.TotalGames,
		TotalCost:  batch.TotalCost,
		TotalWin:   batch.TotalWin,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"games":    batch.TotalGames,
		"rounds":   len(batch.Rounds),
		"totalWin": batch.TotalWin,
	}).Info("Surfaced new results")

	return batch, nil
}

// sortByWin orders tickets by win amount, highest first, then by ID
func sortByWin(tickets []*models.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		if tickets[i].WinAmount != tickets[j].WinAmount {
			return tickets[i].WinAmount > tickets[j].WinAmount
		}
		return tickets[i].ID < tickets[j].ID
	})
}
