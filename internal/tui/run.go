package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbletea"
	"go.trai.ch/zerr"
)

// Run displays tape on out until the tape ends or ctx is canceled.
// It never reads from the terminal, so it can run next to a command's own output.
func Run(ctx context.Context, tape TapeSource, out io.Writer) error {
	p := tea.NewProgram(NewModel(tape),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	if _, err := p.Run(); err != nil {
		return zerr.Wrap(err, "progress display failed")
	}
	return nil
}
