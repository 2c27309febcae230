// Package tui renders the vertices of a load session in the terminal.
package tui

import (
	"github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
)

// TapeSource is the stream of status updates the model follows.
// progrock.Reader satisfies it.
type TapeSource interface {
	ReadStatus() (*progrock.StatusUpdate, bool)
}

// WaitForTape returns a Bubble Tea command that reads the next update from the tape.
// It returns MsgTapeEnded once the tape is closed and drained.
func WaitForTape(tape TapeSource) tea.Cmd {
	return func() tea.Msg {
		update, ok := tape.ReadStatus()
		if !ok {
			return MsgTapeEnded{}
		}
		return MsgTapeUpdate{Update: update}
	}
}
