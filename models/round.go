package models

import (
	"fmt"
	"time"
)

// Round represents one official draw
type Round struct {
	RoundNumber    int64     `db:"round_number"`
	DrawDate       time.Time `db:"draw_date"`
	WinningNumbers []int     `db:"winning_numbers"`
	BonusNumber    int       `db:"bonus_number"`
	IsDrawn        bool      `db:"is_drawn"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Validate checks the round number and, for drawn rounds, the official numbers
func (r *Round) Validate() error {
	if r.RoundNumber <= 0 {
		return fmt.Errorf("%w: round number must be positive, got %d", ErrInvalidInput, r.RoundNumber)
	}
	if !r.IsDrawn {
		return nil
	}
	return ValidateDraw(r.WinningNumbers, r.BonusNumber)
}

// DrawDateString returns the draw date as YYYY-MM-DD
func (r *Round) DrawDateString() string {
	return r.DrawDate.Format("2006-01-02")
}

// ValidateDraw checks six distinct winning numbers and a bonus number outside them
func ValidateDraw(winning []int, bonus int) error {
	if err := validatePick(winning); err != nil {
		return fmt.Errorf("winning numbers: %w", err)
	}
	if bonus < MinNumber || bonus > MaxNumber {
		return fmt.Errorf("%w: bonus number %d outside %d-%d", ErrInvalidInput, bonus, MinNumber, MaxNumber)
	}
	for _, v := range winning {
		if v == bonus {
			return fmt.Errorf("%w: bonus number %d is also a winning number", ErrInvalidInput, bonus)
		}
	}
	return nil
}

// OfficialResult is what the external results provider hands over for a drawn round
type OfficialResult struct {
	RoundNumber    int64
	DrawDate       time.Time
	WinningNumbers []int
	BonusNumber    int
}

// ToRound converts the official result into a drawn round record
func (o *OfficialResult) ToRound() *Round {
	winning := make([]int, len(o.WinningNumbers))
	copy(winning, o.WinningNumbers)
	return &Round{
		RoundNumber:    o.RoundNumber,
		DrawDate:       o.DrawDate,
		WinningNumbers: winning,
		BonusNumber:    o.BonusNumber,
		IsDrawn:        true,
	}
}

// CoarseOutcome is the per-round win/no-win verdict from the purchase
// ledger, used for tickets whose numbers were never captured
type CoarseOutcome struct {
	Won    bool
	Amount int64
}
