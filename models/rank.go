package models

import "fmt"

// Rank is the prize tier a ticket ends up in after scoring. Besides the
// draw's own tiers (rank1-rank5, no-win) and pending, it carries
// win-unclassified for wins the ledger reports without a tier.
type Rank string

const (
	RankPending Rank = "pending"
	RankFirst   Rank = "rank1"
	RankSecond  Rank = "rank2"
	RankThird   Rank = "rank3"
	RankFourth  Rank = "rank4"
	RankFifth   Rank = "rank5"
	RankNoWin   Rank = "no-win"

	// RankWinUnclassified is assigned to tickets without captured numbers
	// whose round the purchase ledger reports as a win. The tier is unknown.
	RankWinUnclassified Rank = "win-unclassified"
)

// ScoredRanks lists every rank a reconciled ticket can hold, best first.
// Histograms are reported in this order.
var ScoredRanks = []Rank{
	RankFirst,
	RankSecond,
	RankThird,
	RankFourth,
	RankFifth,
	RankWinUnclassified,
	RankNoWin,
}

// ParseRank converts a stored rank string back into a Rank
func ParseRank(s string) (Rank, error) {
	r := Rank(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: unknown rank %q", ErrInvalidInput, s)
	}
	return r, nil
}

// IsValid reports whether r is one of the known ranks
func (r Rank) IsValid() bool {
	switch r {
	case RankPending, RankFirst, RankSecond, RankThird, RankFourth, RankFifth, RankNoWin, RankWinUnclassified:
		return true
	}
	return false
}

// IsScored reports whether the rank is a reconciliation result
func (r Rank) IsScored() bool {
	return r.IsValid() && r != RankPending
}

// IsWin reports whether the rank pays out
func (r Rank) IsWin() bool {
	return r.IsScored() && r != RankNoWin
}

// Tier returns 1..5 for the numeric tiers and 0 otherwise
func (r Rank) Tier() int {
	switch r {
	case RankFirst:
		return 1
	case RankSecond:
		return 2
	case RankThird:
		return 3
	case RankFourth:
		return 4
	case RankFifth:
		return 5
	}
	return 0
}

func (r Rank) String() string {
	return string(r)
}

// RankCounts is a histogram of ranks
type RankCounts map[Rank]int

// Add increments the count for a rank
func (c RankCounts) Add(r Rank) {
	c[r]++
}

// Total returns the number of tickets counted
func (c RankCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Wins returns the number of paying tickets counted
func (c RankCounts) Wins() int {
	wins := 0
	for r, n := range c {
		if r.IsWin() {
			wins += n
		}
	}
	return wins
}
