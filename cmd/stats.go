package cmd

import (
	"fmt"
	"strings"

	"lottoledger/application"
	"lottoledger/models"
	"lottoledger/service"

	"github.com/spf13/cobra"
)

// StatsOptions holds flags for the stats command
type StatsOptions struct {
	*RootOptions
	All bool
}

// NewStatsCommand creates the stats command
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cumulative statistics",
		Long: `Show lifetime statistics over results already shown by "check".
With --all, show the whole ledger instead, including pending tickets
and the most recent purchases.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts.RootOptions)
			if err != nil {
				return err
			}
			defer a.Close()

			if opts.All {
				overview, err := service.NewLedgerQueryService(a.uowFactory).GetOverview(ctx)
				if err != nil {
					return err
				}
				return render(cmd, opts.RootOptions, overview, formatOverview(overview))
			}

			stats, err := service.NewLifetimeStatsService(a.uowFactory).GetLifetimeStats(ctx)
			if err != nil {
				return err
			}
			return render(cmd, opts.RootOptions, stats, application.FormatLifetimeStats(stats))
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "summarise the whole ledger")

	return cmd
}

func formatOverview(o *models.LedgerOverview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total spent:   %d\n", o.TotalCost)
	fmt.Fprintf(&b, "Total won:     %d\n", o.TotalWin)
	fmt.Fprintf(&b, "Net profit:    %d\n", o.NetProfit)
	fmt.Fprintf(&b, "Pending games: %d\n", o.PendingGames)
	if len(o.RecentPurchases) > 0 {
		b.WriteString("\nRecent purchases:\n")
		b.WriteString(formatTickets(o.RecentPurchases))
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatTickets renders one ticket per line
func formatTickets(tickets []*models.Ticket) string {
	var b strings.Builder
	for _, t := range tickets {
		round := "unassigned"
		if t.HasRound() {
			round = fmt.Sprintf("%d", t.RoundNumber)
		}
		fmt.Fprintf(&b, "#%-5d round %-10s %-17s %-22s %-18s %d\n",
			t.ID, round, t.Mode, t.Numbers, application.RankLabel(t.WinRank), t.WinAmount)
	}
	return b.String()
}
