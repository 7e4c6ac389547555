package application

import (
	"errors"
	"strings"
	"testing"

	"lottoledger/models"

	"github.com/stretchr/testify/assert"
)

func TestWon(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0원", won(0))
	assert.Equal(t, "5,000원", won(5000))
	assert.Equal(t, "2,000,000,000원", won(2_000_000_000))
	assert.Equal(t, "-46,000원", won(-46000))
}

func TestFormatReconcileSummary(t *testing.T) {
	t.Parallel()

	t.Run("empty pass", func(t *testing.T) {
		t.Parallel()

		msg := FormatReconcileSummary(&models.ReconcilePassResult{})
		assert.Equal(t, "대기 중인 로또 티켓이 없습니다.", msg)
	})

	t.Run("mixed pass", func(t *testing.T) {
		t.Parallel()

		pass := scoredPass()
		pass.Rounds[0].Deferred = 1
		pass.Failed = map[int64]error{1099: errors.New("boom"), 1098: errors.New("bang")}

		msg := FormatReconcileSummary(pass)
		assert.Contains(t, msg, "1100회: 2게임 확인, 당첨 1게임 (1,500,000원), 보류 1게임")
		assert.Contains(t, msg, "1101회: 아직 추첨 전입니다")
		assert.Less(t, strings.Index(msg, "1098회"), strings.Index(msg, "1099회"))
	})
}

func TestFormatResultsBatch(t *testing.T) {
	t.Parallel()

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		msg := FormatResultsBatch(&models.ResultsBatch{})
		assert.Contains(t, msg, "새로 확인된 로또 결과가 없습니다")
	})

	t.Run("grouped by round", func(t *testing.T) {
		t.Parallel()

		winner := &models.Ticket{RoundNumber: 1100, Numbers: models.TicketNumbers{2, 13, 15, 16, 33, 40}, WinRank: models.RankThird, WinAmount: 1_500_000}
		auto := &models.Ticket{RoundNumber: 1099, WinRank: models.RankNoWin}
		batch := &models.ResultsBatch{
			TotalGames: 2,
			TotalCost:  2000,
			TotalWin:   1_500_000,
			Rounds: []*models.RoundBreakdown{
				{
					Round:   &models.Round{RoundNumber: 1100, WinningNumbers: []int{2, 13, 15, 16, 33, 43}, BonusNumber: 4, IsDrawn: true},
					Tickets: []*models.Ticket{winner},
				},
				{Tickets: []*models.Ticket{auto}},
			},
		}

		msg := FormatResultsBatch(batch)
		assert.Contains(t, msg, "확인된 게임 수: 2게임")
		assert.Contains(t, msg, "[1100회] 당첨번호 2, 13, 15, 16, 33, 43 + 보너스 4")
		assert.Contains(t, msg, "2, 13, 15, 16, 33, 40 | 3등 | 1,500,000원")
		assert.Contains(t, msg, "[1099회]")
		assert.Contains(t, msg, "unresolved | 낙첨")
	})
}

func TestFormatLifetimeStats(t *testing.T) {
	t.Parallel()

	msg := FormatLifetimeStats(&models.LifetimeStats{
		TotalGames: 12,
		TotalCost:  12000,
		TotalWin:   5000,
		NetProfit:  -7000,
		RankCounts: models.RankCounts{models.RankFifth: 1, models.RankNoWin: 11},
	})
	assert.Contains(t, msg, "순수익: -7,000원")
	assert.Contains(t, msg, "5등: 1게임")
	assert.Contains(t, msg, "낙첨: 11게임")
	assert.NotContains(t, msg, "1등")
}
