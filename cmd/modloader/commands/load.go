package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/modloader/internal/app"
	"go.trai.ch/modloader/internal/core/domain"
)

func (c *CLI) newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [phases...]",
		Short: "Load the phases in order (default: early_mods mods)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			phases := make([]domain.Phase, 0, len(args))
			for _, arg := range args {
				phase, err := domain.ParsePhase(arg)
				if err != nil {
					return err
				}
				phases = append(phases, phase)
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			opts := app.LoadOptions{
				Options: options(cmd),
				DryRun:  dryRun,
			}
			if progress, _ := cmd.Flags().GetBool("progress"); progress {
				opts.Progress = cmd.ErrOrStderr()
			}
			reports, err := c.app.Load(cmd.Context(), opts, phases)

			w := cmd.OutOrStdout()
			for _, r := range reports {
				_, _ = fmt.Fprintf(w, "%s: %d candidates, %d failed\n", r.Phase, len(r.Candidates), len(r.Failures))
				for _, f := range r.Failures {
					_, _ = fmt.Fprintf(w, "  failed %s: %v\n", f.Object, f.Err)
				}
			}
			return err
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "Print what would be opened without opening anything")
	cmd.Flags().Bool("progress", false, "Show each object as it is loaded on stderr")
	return cmd
}
