package cmd

import (
	"fmt"

	"lottoledger/application"
	"lottoledger/models"

	"github.com/spf13/cobra"
)

// ReconcileOptions holds flags for the reconcile command
type ReconcileOptions struct {
	*RootOptions
	Rounds []int64
}

// reconcileView is the JSON shape of a pass
type reconcileView struct {
	PassID      string                    `json:"pass_id,omitempty"`
	Rounds      []*models.ReconcileResult `json:"rounds"`
	Unavailable []int64                   `json:"unavailable"`
	Failed      map[int64]string          `json:"failed"`
}

// NewReconcileCommand creates the reconcile command
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReconcileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Score pending tickets against official results",
		Long: `Fetch the official numbers for every round holding pending tickets and
score them. Rounds not drawn yet are skipped and retried on the next run.

Examples:
  lotto reconcile
  lotto reconcile --round 1100 --round 1101`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, opts)
		},
	}

	cmd.Flags().Int64SliceVar(&opts.Rounds, "round", nil, "reconcile only these rounds")

	return cmd
}

func runReconcile(cmd *cobra.Command, opts *ReconcileOptions) error {
	for _, n := range opts.Rounds {
		if n <= 0 {
			return fmt.Errorf("round must be positive, got %d", n)
		}
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	reconciler := a.reconciler()

	var pass *models.ReconcilePassResult
	if len(opts.Rounds) > 0 {
		pass, err = reconciler.ReconcileRounds(ctx, opts.Rounds)
	} else {
		pass, err = reconciler.ReconcileAll(ctx)
	}
	if err != nil {
		return err
	}

	view := reconcileView{
		PassID:      pass.PassID,
		Rounds:      pass.Rounds,
		Unavailable: pass.Unavailable,
		Failed:      make(map[int64]string, len(pass.Failed)),
	}
	for n, ferr := range pass.Failed {
		view.Failed[n] = ferr.Error()
	}

	if err := render(cmd, opts.RootOptions, view, application.FormatReconcileSummary(pass)); err != nil {
		return err
	}
	if len(pass.Failed) > 0 {
		return fmt.Errorf("%d round(s) failed to reconcile", len(pass.Failed))
	}
	return nil
}
