package models

import (
	"fmt"
	"time"
)

// TicketMode describes how a ticket was bought
type TicketMode string

const (
	TicketModeAutomatic        TicketMode = "automatic"
	TicketModeManual           TicketMode = "manual"
	TicketModePensionAutomatic TicketMode = "pension-automatic"
)

const (
	// DefaultLottoCost is the price of a single 6/45 game
	DefaultLottoCost int64 = 1000
	// DefaultPensionCost is the price of one pension 720+ set (5 games)
	DefaultPensionCost int64 = 5000
)

// ParseTicketMode converts a stored mode string back into a TicketMode
func ParseTicketMode(s string) (TicketMode, error) {
	m := TicketMode(s)
	switch m {
	case TicketModeAutomatic, TicketModeManual, TicketModePensionAutomatic:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown ticket mode %q", ErrInvalidInput, s)
}

// DefaultCost returns the standard price for the mode
func (m TicketMode) DefaultCost() int64 {
	if m == TicketModePensionAutomatic {
		return DefaultPensionCost
	}
	return DefaultLottoCost
}

// Ticket represents one purchased combination
type Ticket struct {
	ID          int64         `db:"id"`
	RoundNumber int64         `db:"round_number"` // 0 until the purchase executor supplies the round
	PurchasedAt time.Time     `db:"purchased_at"`
	Mode        TicketMode    `db:"mode"`
	Numbers     TicketNumbers `db:"numbers"` // nil when not captured
	Cost        int64         `db:"cost"`
	WinAmount   int64         `db:"win_amount"`
	WinRank     Rank          `db:"win_rank"`
	ShownToUser bool          `db:"shown_to_user"`
}

// IsPending returns true if the ticket has not been scored yet
func (t *Ticket) IsPending() bool {
	return t.WinRank == RankPending
}

// HasRound returns true once a real round number is attached
func (t *Ticket) HasRound() bool {
	return t.RoundNumber > 0
}

// PurchaseRecord is what the purchase executor reports after a successful buy
type PurchaseRecord struct {
	RoundNumber int64         `json:"round_number"`
	PurchasedAt time.Time     `json:"purchased_at"`
	Mode        TicketMode    `json:"mode"`
	Numbers     TicketNumbers `json:"numbers,omitempty"`
	Cost        int64         `json:"cost"`
}

// Validate checks a purchase record before it reaches the ledger
func (p *PurchaseRecord) Validate() error {
	if p.RoundNumber < 0 {
		return fmt.Errorf("%w: round number must not be negative, got %d", ErrInvalidInput, p.RoundNumber)
	}
	if _, err := ParseTicketMode(string(p.Mode)); err != nil {
		return err
	}
	if p.Cost <= 0 {
		return fmt.Errorf("%w: cost must be positive, got %d", ErrInvalidInput, p.Cost)
	}
	if p.Mode == TicketModeManual && p.Numbers.IsUnresolved() {
		return fmt.Errorf("%w: manual tickets need their numbers", ErrInvalidInput)
	}
	if p.Mode == TicketModePensionAutomatic && !p.Numbers.IsUnresolved() {
		return fmt.Errorf("%w: pension tickets are not 6/45 picks", ErrInvalidInput)
	}
	return p.Numbers.Validate()
}

// ToTicket builds the pending ticket stored for this purchase
func (p *PurchaseRecord) ToTicket() *Ticket {
	return &Ticket{
		RoundNumber: p.RoundNumber,
		PurchasedAt: p.PurchasedAt,
		Mode:        p.Mode,
		Numbers:     p.Numbers,
		Cost:        p.Cost,
		WinRank:     RankPending,
	}
}
