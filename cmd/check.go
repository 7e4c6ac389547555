package cmd

import (
	"lottoledger/application"
	"lottoledger/service"

	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command, which shows each newly
// scored ticket exactly once
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Show results not seen yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			batch, err := service.NewResultsCursor(a.uowFactory).ConsumeNewResults(ctx)
			if err != nil {
				return err
			}
			return render(cmd, rootOpts, batch, application.FormatResultsBatch(batch))
		},
	}
}
