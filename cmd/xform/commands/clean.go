package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/xform/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached transform results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			olderThan, err := cmd.Flags().GetDuration("older-than")
			if err != nil {
				return err
			}
			pruned, err := c.app.Clean(cmd.Context(), app.CleanOptions{
				LoadOptions: loadOptions(cmd),
				OlderThan:   olderThan,
			})
			if err != nil {
				return err
			}
			if olderThan > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pruned %d entries\n", pruned)
			}
			return nil
		},
	}
	cmd.Flags().Duration("older-than", 0, "Only remove entries not written within this duration (e.g. 72h)")
	return cmd
}
