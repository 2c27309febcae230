// Package commands implements the CLI commands for modloader.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/modloader/internal/app"
	"go.trai.ch/modloader/internal/build"
	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/modloader/internal/engine/loader"
)

// Application represents the application logic interface.
type Application interface {
	Needed(opts app.Options, file string) ([]string, error)
	Tree(opts app.Options, file string, phase domain.Phase) (*domain.Tree, error)
	Order(opts app.Options, file string, phase domain.Phase) ([]domain.SharedObject, *domain.Tree, error)
	List(opts app.Options, phase domain.Phase) ([]domain.SharedObject, error)
	Load(ctx context.Context, opts app.LoadOptions, phases []domain.Phase) ([]loader.Report, error)
}

// CLI represents the command line interface for modloader.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "modloader",
		Short:         "Resolve and load layered native mods in dependency order",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}} (commit: %s)\n", build.Commit))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "modloader.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringP("root", "r", "", "Root directory holding the phase directories (overrides the config)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newNeededCmd())
	rootCmd.AddCommand(c.newTreeCmd())
	rootCmd.AddCommand(c.newOrderCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newLoadCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error writers for the root command. Used for testing.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

func options(cmd *cobra.Command) app.Options {
	configPath, _ := cmd.Flags().GetString("config")
	root, _ := cmd.Flags().GetString("root")
	return app.Options{ConfigPath: configPath, Root: root}
}

func addPhaseFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("phase", "p", domain.PhaseMods.String(), "Phase the file is loaded from (libs, early_mods, mods)")
}

func phaseFlag(cmd *cobra.Command) (domain.Phase, error) {
	name, _ := cmd.Flags().GetString("phase")
	return domain.ParsePhase(name)
}
