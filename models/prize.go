package models

import "fmt"

// PrizeTable maps each numeric tier to its nominal payout in won.
// Real payouts are pari-mutuel for the top three tiers; the ledger
// records the nominal figure.
type PrizeTable map[Rank]int64

// DefaultPrizeTable returns the nominal amounts used when none are configured
func DefaultPrizeTable() PrizeTable {
	return PrizeTable{
		RankFirst:  2_000_000_000,
		RankSecond: 50_000_000,
		RankThird:  1_500_000,
		RankFourth: 50_000,
		RankFifth:  5_000,
	}
}

// Amount returns the payout for a rank. Ranks outside the table pay nothing.
func (p PrizeTable) Amount(r Rank) int64 {
	return p[r]
}

// Validate checks that every numeric tier has a non-negative amount
func (p PrizeTable) Validate() error {
	for _, r := range []Rank{RankFirst, RankSecond, RankThird, RankFourth, RankFifth} {
		amount, ok := p[r]
		if !ok {
			return fmt.Errorf("%w: prize table is missing %s", ErrInvalidInput, r)
		}
		if amount < 0 {
			return fmt.Errorf("%w: prize for %s must not be negative", ErrInvalidInput, r)
		}
	}
	return nil
}
