package application

import (
	"fmt"
	"sort"
	"strings"

	"lottoledger/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// won formats an amount with thousands separators, e.g. "1,500,000원"
func won(amount int64) string {
	return printer.Sprintf("%d원", amount)
}

var rankLabels = map[models.Rank]string{
	models.RankFirst:           "1등",
	models.RankSecond:          "2등",
	models.RankThird:           "3등",
	models.RankFourth:          "4등",
	models.RankFifth:           "5등",
	models.RankWinUnclassified: "당첨(등수 미확인)",
	models.RankNoWin:           "낙첨",
	models.RankPending:         "대기",
}

// RankLabel returns the display name of a rank
func RankLabel(r models.Rank) string {
	if label, ok := rankLabels[r]; ok {
		return label
	}
	return string(r)
}

// FormatReconcileSummary describes a reconciliation pass
func FormatReconcileSummary(pass *models.ReconcilePassResult) string {
	var b strings.Builder

	if len(pass.Rounds) == 0 && len(pass.Unavailable) == 0 && len(pass.Failed) == 0 {
		b.WriteString("대기 중인 로또 티켓이 없습니다.")
		return b.String()
	}

	b.WriteString("📋 로또 당첨 확인 결과\n")
	for _, r := range pass.Rounds {
		fmt.Fprintf(&b, "• %d회: %d게임 확인", r.RoundNumber, r.Scored)
		if wins := r.RankCounts.Wins(); wins > 0 {
			fmt.Fprintf(&b, ", 당첨 %d게임 (%s)", wins, won(r.TotalWin))
		}
		if r.Deferred > 0 {
			fmt.Fprintf(&b, ", 보류 %d게임", r.Deferred)
		}
		b.WriteString("\n")
	}
	for _, n := range pass.Unavailable {
		fmt.Fprintf(&b, "• %d회: 아직 추첨 전입니다\n", n)
	}

	failed := make([]int64, 0, len(pass.Failed))
	for n := range pass.Failed {
		failed = append(failed, n)
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })
	for _, n := range failed {
		fmt.Fprintf(&b, "• %d회: 확인 실패 (%v)\n", n, pass.Failed[n])
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatResultsBatch describes newly surfaced results, one block per round
func FormatResultsBatch(batch *models.ResultsBatch) string {
	if batch.IsEmpty() {
		return "새로 확인된 로또 결과가 없습니다. 이번 주 추첨을 기다려 보세요! 🍀"
	}

	var b strings.Builder
	b.WriteString("🎁 새로 확인된 로또 추첨 결과\n")
	fmt.Fprintf(&b, "확인된 게임 수: %s게임\n", printer.Sprintf("%d", batch.TotalGames))
	fmt.Fprintf(&b, "소모 비용: %s\n", won(batch.TotalCost))
	fmt.Fprintf(&b, "총 당첨금: %s\n", won(batch.TotalWin))

	for _, group := range batch.Rounds {
		if len(group.Tickets) == 0 {
			continue
		}
		b.WriteString("\n")
		if group.Round != nil && group.Round.IsDrawn {
			fmt.Fprintf(&b, "[%d회] 당첨번호 %s + 보너스 %d\n",
				group.Round.RoundNumber, models.TicketNumbers(group.Round.WinningNumbers), group.Round.BonusNumber)
		} else {
			fmt.Fprintf(&b, "[%d회]\n", group.Tickets[0].RoundNumber)
		}
		for _, t := range group.Tickets {
			fmt.Fprintf(&b, "  %s | %s", t.Numbers, RankLabel(t.WinRank))
			if t.WinAmount > 0 {
				fmt.Fprintf(&b, " | %s", won(t.WinAmount))
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatLifetimeStats describes cumulative statistics over shown tickets
func FormatLifetimeStats(stats *models.LifetimeStats) string {
	var b strings.Builder
	b.WriteString("📊 누적 로또 통계\n")
	fmt.Fprintf(&b, "총 게임 수: %s게임\n", printer.Sprintf("%d", stats.TotalGames))
	fmt.Fprintf(&b, "총 구매 비용: %s\n", won(stats.TotalCost))
	fmt.Fprintf(&b, "총 당첨금: %s\n", won(stats.TotalWin))
	fmt.Fprintf(&b, "순수익: %s\n", won(stats.NetProfit))

	for _, r := range models.ScoredRanks {
		if n := stats.RankCounts[r]; n > 0 {
			fmt.Fprintf(&b, "%s: %d게임\n", RankLabel(r), n)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
