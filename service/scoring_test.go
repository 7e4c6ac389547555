package service

import (
	"testing"

	"lottoledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testWinning = []int{2, 13, 15, 16, 33, 43}
	testBonus   = 4
)

func TestClassifyMatch_FullGrid(t *testing.T) {
	t.Parallel()

	for matches := 0; matches <= 6; matches++ {
		for _, bonusHit := range []bool{false, true} {
			var want models.Rank
			switch {
			case matches == 6:
				want = models.RankFirst
			case matches == 5 && bonusHit:
				want = models.RankSecond
			case matches == 5:
				want = models.RankThird
			case matches == 4:
				want = models.RankFourth
			case matches == 3:
				want = models.RankFifth
			default:
				want = models.RankNoWin
			}
			assert.Equal(t, want, ClassifyMatch(matches, bonusHit), "matches=%d bonus=%v", matches, bonusHit)
		}
	}
}

func TestScoringEngine_Score(t *testing.T) {
	t.Parallel()

	engine := NewScoringEngine(models.DefaultPrizeTable())

	tests := []struct {
		name       string
		numbers    models.TicketNumbers
		wantRank   models.Rank
		wantAmount int64
	}{
		{
			name:       "six matches",
			numbers:    models.TicketNumbers{2, 13, 15, 16, 33, 43},
			wantRank:   models.RankFirst,
			wantAmount: 2_000_000_000,
		},
		{
			name:       "five matches with bonus",
			numbers:    models.TicketNumbers{2, 4, 13, 15, 16, 33},
			wantRank:   models.RankSecond,
			wantAmount: 50_000_000,
		},
		{
			name:       "five matches without bonus",
			numbers:    models.TicketNumbers{2, 13, 15, 16, 33, 40},
			wantRank:   models.RankThird,
			wantAmount: 1_500_000,
		},
		{
			name:       "four matches",
			numbers:    models.TicketNumbers{2, 13, 15, 16, 20, 21},
			wantRank:   models.RankFourth,
			wantAmount: 50_000,
		},
		{
			name:       "four matches with bonus is still fourth",
			numbers:    models.TicketNumbers{2, 4, 13, 15, 16, 21},
			wantRank:   models.RankFourth,
			wantAmount: 50_000,
		},
		{
			name:       "three matches",
			numbers:    models.TicketNumbers{2, 13, 15, 20, 21, 22},
			wantRank:   models.RankFifth,
			wantAmount: 5_000,
		},
		{
			name:       "two matches",
			numbers:    models.TicketNumbers{2, 12, 13, 17, 18, 25},
			wantRank:   models.RankNoWin,
			wantAmount: 0,
		},
		{
			name:       "two matches with bonus",
			numbers:    models.TicketNumbers{2, 4, 13, 17, 18, 25},
			wantRank:   models.RankNoWin,
			wantAmount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rank, amount, err := engine.Score(tt.numbers, testWinning, testBonus)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRank, rank)
			assert.Equal(t, tt.wantAmount, amount)
		})
	}
}

func TestScoringEngine_Score_InvalidInput(t *testing.T) {
	t.Parallel()

	engine := NewScoringEngine(nil)

	tests := []struct {
		name    string
		numbers models.TicketNumbers
		winning []int
		bonus   int
	}{
		{name: "unresolved ticket", numbers: models.UnresolvedNumbers, winning: testWinning, bonus: testBonus},
		{name: "five ticket numbers", numbers: models.TicketNumbers{1, 2, 3, 4, 5}, winning: testWinning, bonus: testBonus},
		{name: "ticket number out of range", numbers: models.TicketNumbers{1, 2, 3, 4, 5, 46}, winning: testWinning, bonus: testBonus},
		{name: "duplicate winning numbers", numbers: models.TicketNumbers{1, 2, 3, 4, 5, 6}, winning: []int{1, 1, 2, 3, 4, 5}, bonus: 7},
		{name: "bonus among winning", numbers: models.TicketNumbers{1, 2, 3, 4, 5, 6}, winning: testWinning, bonus: 2},
		{name: "bonus out of range", numbers: models.TicketNumbers{1, 2, 3, 4, 5, 6}, winning: testWinning, bonus: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := engine.Score(tt.numbers, tt.winning, tt.bonus)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

// Every pick of 6 from a 10-number window around the draw is checked
// against an independent match count.
func TestScoringEngine_Score_Exhaustive(t *testing.T) {
	t.Parallel()

	engine := NewScoringEngine(models.DefaultPrizeTable())
	winning := []int{1, 2, 3, 4, 5, 6}
	bonus := 7
	pool := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	var pick func(start int, chosen []int)
	pick = func(start int, chosen []int) {
		if len(chosen) == 6 {
			nums := append(models.TicketNumbers(nil), chosen...)
			matches, bonusHit := 0, false
			for _, n := range nums {
				if n <= 6 {
					matches++
				}
				if n == bonus {
					bonusHit = true
				}
			}

			rank, amount, err := engine.Score(nums, winning, bonus)
			require.NoError(t, err)
			assert.Equal(t, ClassifyMatch(matches, bonusHit), rank, "numbers %v", nums)
			assert.Equal(t, models.DefaultPrizeTable().Amount(rank), amount)
			return
		}
		for i := start; i < len(pool); i++ {
			pick(i+1, append(chosen, pool[i]))
		}
	}
	pick(0, nil)
}

func TestScoringEngine_ScoreUnresolved(t *testing.T) {
	t.Parallel()

	engine := NewScoringEngine(models.DefaultPrizeTable())

	rank, amount, err := engine.ScoreUnresolved(&models.CoarseOutcome{Won: false})
	require.NoError(t, err)
	assert.Equal(t, models.RankNoWin, rank)
	assert.Zero(t, amount)
	assert.Zero(t, rank.Tier(), "an unresolved ticket never lands in a numeric tier")

	rank, amount, err = engine.ScoreUnresolved(&models.CoarseOutcome{Won: true, Amount: 5000})
	require.NoError(t, err)
	assert.Equal(t, models.RankWinUnclassified, rank)
	assert.Zero(t, amount)
	assert.Zero(t, rank.Tier())

	_, _, err = engine.ScoreUnresolved(nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestScoringEngine_CustomPrizes(t *testing.T) {
	t.Parallel()

	prizes := models.DefaultPrizeTable()
	prizes[models.RankFifth] = 7_000
	engine := NewScoringEngine(prizes)

	rank, amount, err := engine.Score(models.TicketNumbers{2, 13, 15, 20, 21, 22}, testWinning, testBonus)
	require.NoError(t, err)
	assert.Equal(t, models.RankFifth, rank)
	assert.Equal(t, int64(7_000), amount)
}
