package testutil

import (
	"time"

	"lottoledger/models"
)

// CreateTestTicket creates a manual ticket for the given round and numbers
func CreateTestTicket(roundNumber int64, numbers ...int) *models.Ticket {
	return &models.Ticket{
		RoundNumber: roundNumber,
		PurchasedAt: time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC),
		Mode:        models.TicketModeManual,
		Numbers:     models.TicketNumbers(numbers),
		Cost:        models.DefaultLottoCost,
		WinRank:     models.RankPending,
	}
}

// CreateUnresolvedTicket creates an automatic ticket whose numbers were not captured
func CreateUnresolvedTicket(roundNumber int64) *models.Ticket {
	ticket := CreateTestTicket(roundNumber)
	ticket.Mode = models.TicketModeAutomatic
	ticket.Numbers = models.UnresolvedNumbers
	return ticket
}

// CreatePensionTicket creates a pension 720+ set, which never carries 6/45 numbers
func CreatePensionTicket(roundNumber int64) *models.Ticket {
	ticket := CreateUnresolvedTicket(roundNumber)
	ticket.Mode = models.TicketModePensionAutomatic
	ticket.Cost = models.DefaultPensionCost
	return ticket
}

// CreateDrawnRound creates a drawn round with the given official numbers
func CreateDrawnRound(roundNumber int64, bonus int, winning ...int) *models.Round {
	return &models.Round{
		RoundNumber:    roundNumber,
		DrawDate:       time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
		WinningNumbers: winning,
		BonusNumber:    bonus,
		IsDrawn:        true,
	}
}
