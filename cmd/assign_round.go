package cmd

import (
	"fmt"
	"strconv"

	"lottoledger/service"

	"github.com/spf13/cobra"
)

// NewAssignRoundCommand creates the assign-round command
func NewAssignRoundCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assign-round TICKET ROUND",
		Short: "Attach the round number to a ticket recorded without one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticketID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || ticketID <= 0 {
				return fmt.Errorf("ticket id must be a positive number, got %q", args[0])
			}
			roundNumber, err := parseRoundArg(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			ticket, err := service.NewPurchaseService(a.uowFactory).AssignRound(ctx, ticketID, roundNumber)
			if err != nil {
				return err
			}
			return render(cmd, rootOpts, ticket, fmt.Sprintf("Ticket #%d assigned to round %d", ticket.ID, ticket.RoundNumber))
		},
	}
}
