package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"lottoledger/models"
	"lottoledger/service"

	"github.com/spf13/cobra"
)

// NewRoundCommand creates the round command
func NewRoundCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "round ROUND",
		Short: "Show one round's numbers and tickets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roundNumber, err := parseRoundArg(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			details, err := service.NewLedgerQueryService(a.uowFactory).GetRoundDetails(ctx, roundNumber)
			if err != nil {
				return err
			}
			return render(cmd, rootOpts, details, formatRoundDetails(roundNumber, details))
		},
	}
}

func parseRoundArg(arg string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("round must be a positive number, got %q", arg)
	}
	return n, nil
}

func formatRoundDetails(roundNumber int64, d *models.RoundDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Round %d\n", roundNumber)
	if d.Round != nil && d.Round.IsDrawn {
		fmt.Fprintf(&b, "Drawn %s: %s + bonus %d\n",
			d.Round.DrawDateString(), models.TicketNumbers(d.Round.WinningNumbers), d.Round.BonusNumber)
	} else {
		b.WriteString("Not drawn yet\n")
	}
	if len(d.Tickets) > 0 {
		b.WriteString("\n")
		b.WriteString(formatTickets(d.Tickets))
	}
	return strings.TrimRight(b.String(), "\n")
}
