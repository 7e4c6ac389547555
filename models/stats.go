package models

// ResultsBatch represents newly surfaced results returned by the unchecked-results cursor
type ResultsBatch struct {
	TotalGames int
	TotalCost  int64
	TotalWin   int64
	RankCounts RankCounts
	Rounds     []*RoundBreakdown // grouped by round, highest round first
	Tickets    []*Ticket
}

// IsEmpty returns true when nothing new was surfaced
func (b *ResultsBatch) IsEmpty() bool {
	return b.TotalGames == 0
}

// RoundBreakdown groups a batch's tickets under their round
type RoundBreakdown struct {
	Round   *Round // nil when the round record is missing
	Tickets []*Ticket
}

// LifetimeStats represents the cumulative view over all shown tickets
type LifetimeStats struct {
	TotalGames int
	TotalCost  int64
	TotalWin   int64
	NetProfit  int64
	RankCounts RankCounts
}

// LedgerOverview represents the whole-ledger summary, shown or not
type LedgerOverview struct {
	TotalCost       int64
	TotalWin        int64
	NetProfit       int64
	PendingGames    int
	RecentPurchases []*Ticket
}

// RoundDetails represents one round with every ticket bought for it
type RoundDetails struct {
	Round   *Round // nil when results were never stored
	Tickets []*Ticket
}

// ReconcileResult summarises reconciliation of a single round
type ReconcileResult struct {
	RoundNumber   int64
	Scored        int
	AlreadyScored int
	Deferred      int // unresolved tickets left pending for lack of a coarse outcome
	TotalWin      int64
	RankCounts    RankCounts
}

// ReconcilePassResult summarises a multi-round reconciliation pass
type ReconcilePassResult struct {
	PassID      string
	Rounds      []*ReconcileResult
	Unavailable []int64 // rounds the provider has not drawn yet
	Failed      map[int64]error
}

// TotalScored returns the number of tickets scored across the pass
func (p *ReconcilePassResult) TotalScored() int {
	total := 0
	for _, r := range p.Rounds {
		total += r.Scored
	}
	return total
}
