package cmd

import (
	"fmt"
	"strings"

	"lottoledger/service"

	"github.com/spf13/cobra"
)

// NewPendingCommand creates the pending command
func NewPendingCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List tickets waiting for their draw",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			tickets, err := service.NewLedgerQueryService(a.uowFactory).GetPendingTickets(ctx)
			if err != nil {
				return err
			}

			text := "No pending tickets"
			if len(tickets) > 0 {
				text = fmt.Sprintf("%d pending ticket(s)\n%s", len(tickets), strings.TrimRight(formatTickets(tickets), "\n"))
			}
			return render(cmd, rootOpts, tickets, text)
		},
	}
}
