package service

import (
	"fmt"

	"lottoledger/models"
)

// ScoringEngine turns a ticket and an official draw into a rank and payout.
// It holds no state beyond the prize table and is safe for concurrent use.
type ScoringEngine struct {
	prizes models.PrizeTable
}

// NewScoringEngine creates a scoring engine paying out from the given table
func NewScoringEngine(prizes models.PrizeTable) *ScoringEngine {
	if prizes == nil {
		prizes = models.DefaultPrizeTable()
	}
	return &ScoringEngine{prizes: prizes}
}

// ClassifyMatch maps a match count and bonus hit to a rank.
// The bonus number only matters at exactly five matches.
func ClassifyMatch(matches int, bonusHit bool) models.Rank {
	switch {
	case matches == 6:
		return models.RankFirst
	case matches == 5 && bonusHit:
		return models.RankSecond
	case matches == 5:
		return models.RankThird
	case matches == 4:
		return models.RankFourth
	case matches == 3:
		return models.RankFifth
	default:
		return models.RankNoWin
	}
}

// Score ranks a resolved ticket against the winning numbers and bonus
func (e *ScoringEngine) Score(numbers models.TicketNumbers, winning []int, bonus int) (models.Rank, int64, error) {
	if numbers.IsUnresolved() {
		return "", 0, fmt.Errorf("%w: unresolved tickets need a coarse outcome", models.ErrInvalidInput)
	}
	if err := numbers.Validate(); err != nil {
		return "", 0, fmt.Errorf("ticket numbers: %w", err)
	}
	if err := models.ValidateDraw(winning, bonus); err != nil {
		return "", 0, err
	}

	matches := 0
	for _, w := range winning {
		if numbers.Contains(w) {
			matches++
		}
	}

	rank := ClassifyMatch(matches, numbers.Contains(bonus))
	return rank, e.prizes.Amount(rank), nil
}

// ScoreUnresolved ranks a ticket whose numbers were never captured from
// the purchase ledger's verdict for its round. Such a ticket never lands
// in a numeric tier. The ledger only reports a per-round total, so a win
// is recorded without an amount.
func (e *ScoringEngine) ScoreUnresolved(outcome *models.CoarseOutcome) (models.Rank, int64, error) {
	if outcome == nil {
		return "", 0, fmt.Errorf("%w: missing coarse outcome", models.ErrInvalidInput)
	}
	if outcome.Won {
		return models.RankWinUnclassified, 0, nil
	}
	return models.RankNoWin, 0, nil
}
