package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/modloader/internal/core/domain"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <phase>",
		Short: "Print the top-level candidates of a phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase, err := domain.ParsePhase(args[0])
			if err != nil {
				return err
			}
			objects, err := c.app.List(options(cmd), phase)
			if err != nil {
				return err
			}
			for _, obj := range objects {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), obj)
			}
			return nil
		},
	}
}
