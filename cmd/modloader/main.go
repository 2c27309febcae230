// Package main is the entry point for the modloader tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.trai.ch/modloader/cmd/modloader/commands"
	"go.trai.ch/modloader/internal/app"
	"go.trai.ch/modloader/internal/core/domain"
	_ "go.trai.ch/modloader/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, err := app.NewApp(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		if err := components.App.Close(); err != nil {
			components.Logger.Error(err)
		}
	}()

	// 2. Interface - CLI
	cli := commands.New(components.App)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrLoadFailed) {
			// Failures were already printed per object.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
