package commands

import (
	"os"

	"github.com/spf13/cobra"
)

func (c *CLI) newCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect and post-process the configured files into a bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			return c.app.Collect(cmd.Context(), cwd, force)
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Rebuild even when the previous run is still valid")
	return cmd
}
