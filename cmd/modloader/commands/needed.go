package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newNeededCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "needed <file>",
		Short: "Print the shared objects a file declares as needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := c.app.Needed(options(cmd), args[0])
			if err != nil {
				return err
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
