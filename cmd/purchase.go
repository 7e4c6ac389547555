package cmd

import (
	"fmt"
	"time"

	"lottoledger/models"
	"lottoledger/service"

	"github.com/spf13/cobra"
)

// PurchaseOptions holds flags for the purchase command
type PurchaseOptions struct {
	*RootOptions
	Mode    string
	Round   int64
	Numbers string
	Cost    int64
	At      string
}

// NewPurchaseCommand creates the purchase command, used to record a ticket
// bought outside the purchase executor
func NewPurchaseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PurchaseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Record a purchased ticket",
		Long: `Record a purchased ticket as pending.

Examples:
  lotto purchase --mode manual --round 1100 --numbers "2,13,15,16,33,43"
  lotto purchase --mode automatic --round 1100
  lotto purchase --mode pension-automatic`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := opts.toRecord()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, opts.RootOptions)
			if err != nil {
				return err
			}
			defer a.Close()

			ticket, err := service.NewPurchaseService(a.uowFactory).RecordPurchase(ctx, record)
			if err != nil {
				return err
			}
			return render(cmd, opts.RootOptions, ticket, fmt.Sprintf("Recorded ticket #%d", ticket.ID))
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", string(models.TicketModeAutomatic), "automatic, manual or pension-automatic")
	cmd.Flags().Int64Var(&opts.Round, "round", 0, "round number, 0 when not known yet")
	cmd.Flags().StringVar(&opts.Numbers, "numbers", "", "six numbers, e.g. \"1,2,3,4,5,6\"")
	cmd.Flags().Int64Var(&opts.Cost, "cost", 0, "amount paid, defaults to the mode's price")
	cmd.Flags().StringVar(&opts.At, "at", "", "purchase time (RFC 3339), defaults to now")

	return cmd
}

// toRecord parses the flags into a purchase record. Remaining validation
// happens in the purchase service.
func (o *PurchaseOptions) toRecord() (*models.PurchaseRecord, error) {
	mode, err := models.ParseTicketMode(o.Mode)
	if err != nil {
		return nil, err
	}

	record := &models.PurchaseRecord{
		RoundNumber: o.Round,
		Mode:        mode,
		Cost:        o.Cost,
	}

	if o.Numbers != "" {
		numbers, err := models.ParseTicketNumbers(o.Numbers)
		if err != nil {
			return nil, err
		}
		record.Numbers = numbers
	}

	if o.At != "" {
		at, err := time.Parse(time.RFC3339, o.At)
		if err != nil {
			return nil, fmt.Errorf("invalid --at %q: %w", o.At, err)
		}
		record.PurchasedAt = at
	}

	return record, nil
}
