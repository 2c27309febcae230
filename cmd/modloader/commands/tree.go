package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/modloader/internal/core/domain"
)

func (c *CLI) newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the resolved dependency tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase, err := phaseFlag(cmd)
			if err != nil {
				return err
			}
			tree, err := c.app.Tree(options(cmd), args[0], phase)
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), tree)
			return nil
		},
	}
	addPhaseFlag(cmd)
	return cmd
}

func printTree(w io.Writer, tree *domain.Tree) {
	_, _ = fmt.Fprintf(w, "%s [%s]\n", tree.Root, tree.Phase)
	domain.Walk(tree.Dependencies, func(d domain.Dependency, depth int) {
		_, _ = fmt.Fprintf(w, "%s%s [%s]\n", strings.Repeat("  ", depth+1), d.Object, d.Phase)
	})
	printMissing(w, tree)
}

func printMissing(w io.Writer, tree *domain.Tree) {
	for _, u := range tree.Unresolved {
		_, _ = fmt.Fprintf(w, "unresolved: %s (required by %s, searched down to %s)\n", u.Name, u.Requester, u.Phase)
	}
	for _, name := range tree.Provided {
		_, _ = fmt.Fprintf(w, "provided: %s\n", name)
	}
}
