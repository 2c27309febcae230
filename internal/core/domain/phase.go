// Package domain contains the core domain models and the dependency ordering logic of the mod loader.
package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Phase is a load layer. Higher values are more general.
type Phase int

const (
	// PhaseMods is the most specific layer: regular mods.
	PhaseMods Phase = iota
	// PhaseEarlyMods holds mods that must be loaded before regular mods.
	PhaseEarlyMods
	// PhaseLibs is the most general layer: shared libraries.
	PhaseLibs
)

// Phases lists every phase from most general to most specific.
var Phases = []Phase{PhaseLibs, PhaseEarlyMods, PhaseMods}

var phaseNames = map[Phase]string{
	PhaseLibs:      "libs",
	PhaseEarlyMods: "early_mods",
	PhaseMods:      "mods",
}

// String returns the canonical name of the phase, which is also its default directory name.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePhase returns the phase with the given canonical name.
func ParsePhase(name string) (Phase, error) {
	for p, n := range phaseNames {
		if n == name {
			return p, nil
		}
	}
	return 0, Classify(ErrUnknownPhase, zerr.With(zerr.New("no phase with this name"), "phase", name))
}

// PhasesDownTo yields PhaseLibs first, then progressively more specific
// phases, stopping at and including requester.
func PhasesDownTo(requester Phase) iter.Seq[Phase] {
	return func(yield func(Phase) bool) {
		for p := PhaseLibs; p >= requester && p >= PhaseMods; p-- {
			if !yield(p) {
				return
			}
		}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
