package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRank_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rank   Rank
		scored bool
		win    bool
		tier   int
	}{
		{rank: RankPending, scored: false, win: false, tier: 0},
		{rank: RankFirst, scored: true, win: true, tier: 1},
		{rank: RankSecond, scored: true, win: true, tier: 2},
		{rank: RankThird, scored: true, win: true, tier: 3},
		{rank: RankFourth, scored: true, win: true, tier: 4},
		{rank: RankFifth, scored: true, win: true, tier: 5},
		{rank: RankWinUnclassified, scored: true, win: true, tier: 0},
		{rank: RankNoWin, scored: true, win: false, tier: 0},
		{rank: Rank("1등"), scored: false, win: false, tier: 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.rank), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.scored, tt.rank.IsScored())
			assert.Equal(t, tt.win, tt.rank.IsWin())
			assert.Equal(t, tt.tier, tt.rank.Tier())
		})
	}
}

func TestParseRank(t *testing.T) {
	t.Parallel()

	for _, r := range append([]Rank{RankPending}, ScoredRanks...) {
		got, err := ParseRank(string(r))
		assert.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRank("rank6")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRankCounts(t *testing.T) {
	t.Parallel()

	counts := RankCounts{}
	counts.Add(RankFirst)
	counts.Add(RankNoWin)
	counts.Add(RankNoWin)
	counts.Add(RankWinUnclassified)

	assert.Equal(t, 4, counts.Total())
	assert.Equal(t, 2, counts.Wins())
	assert.Equal(t, 2, counts[RankNoWin])
}

func TestPurchaseRecord_Validate(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		record  PurchaseRecord
		wantErr bool
	}{
		{
			name:   "manual with numbers",
			record: PurchaseRecord{RoundNumber: 1100, PurchasedAt: now, Mode: TicketModeManual, Numbers: TicketNumbers{1, 2, 3, 4, 5, 6}, Cost: 1000},
		},
		{
			name:   "automatic without numbers and unassigned round",
			record: PurchaseRecord{RoundNumber: 0, PurchasedAt: now, Mode: TicketModeAutomatic, Cost: 1000},
		},
		{
			name:   "pension set",
			record: PurchaseRecord{RoundNumber: 0, PurchasedAt: now, Mode: TicketModePensionAutomatic, Cost: 5000},
		},
		{
			name:    "manual without numbers",
			record:  PurchaseRecord{RoundNumber: 1100, PurchasedAt: now, Mode: TicketModeManual, Cost: 1000},
			wantErr: true,
		},
		{
			name:    "pension with numbers",
			record:  PurchaseRecord{RoundNumber: 1100, PurchasedAt: now, Mode: TicketModePensionAutomatic, Numbers: TicketNumbers{1, 2, 3, 4, 5, 6}, Cost: 5000},
			wantErr: true,
		},
		{
			name:    "zero cost",
			record:  PurchaseRecord{RoundNumber: 1100, PurchasedAt: now, Mode: TicketModeAutomatic, Cost: 0},
			wantErr: true,
		},
		{
			name:    "negative round",
			record:  PurchaseRecord{RoundNumber: -1, PurchasedAt: now, Mode: TicketModeAutomatic, Cost: 1000},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			record:  PurchaseRecord{RoundNumber: 1100, PurchasedAt: now, Mode: TicketMode("수동"), Cost: 1000},
			wantErr: true,
		},
		{
			name:    "invalid numbers",
			record:  PurchaseRecord{RoundNumber: 1100, PurchasedAt: now, Mode: TicketModeManual, Numbers: TicketNumbers{1, 1, 3, 4, 5, 6}, Cost: 1000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.record.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPurchaseRecord_ToTicket(t *testing.T) {
	t.Parallel()

	now := time.Now()
	record := PurchaseRecord{
		RoundNumber: 1100,
		PurchasedAt: now,
		Mode:        TicketModeManual,
		Numbers:     TicketNumbers{1, 2, 3, 4, 5, 6},
		Cost:        1000,
	}

	ticket := record.ToTicket()
	assert.Equal(t, int64(1100), ticket.RoundNumber)
	assert.Equal(t, now, ticket.PurchasedAt)
	assert.True(t, ticket.IsPending())
	assert.True(t, ticket.HasRound())
	assert.False(t, ticket.ShownToUser)
	assert.Zero(t, ticket.WinAmount)
}

func TestTicketMode_DefaultCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1000), TicketModeAutomatic.DefaultCost())
	assert.Equal(t, int64(1000), TicketModeManual.DefaultCost())
	assert.Equal(t, int64(5000), TicketModePensionAutomatic.DefaultCost())
}
