package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// render writes value as indented JSON or the text rendering, per --format
func render(cmd *cobra.Command, opts *RootOptions, value any, text string) error {
	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}
	_, err := fmt.Fprintln(out, text)
	return err
}
