package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order <file>",
		Short: "Print the order in which a file and its dependencies are opened",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase, err := phaseFlag(cmd)
			if err != nil {
				return err
			}
			order, tree, err := c.app.Order(options(cmd), args[0], phase)
			if err != nil {
				return err
			}
			for _, obj := range order {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), obj)
			}
			printMissing(cmd.ErrOrStderr(), tree)
			return nil
		},
	}
	addPhaseFlag(cmd)
	return cmd
}
