// Package fs provides the file system adapters: the phase-layered resolver,
// the phase directory lister and the file hasher.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/modloader/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Resolver = (*Resolver)(nil)

// Resolver finds dependency names in the phase directories under a root.
type Resolver struct {
	layout Layout
}

// NewResolver creates a new Resolver over layout.
func NewResolver(layout Layout) *Resolver {
	return &Resolver{layout: layout}
}

// Resolve checks the phase directories from PhaseLibs down to requester and
// returns the first regular file named name, with the phase it was found in.
// Phases more specific than requester are never searched.
func (r *Resolver) Resolve(name string, requester domain.Phase) (domain.SharedObject, domain.Phase, error) {
	if !isPlainName(name) {
		return domain.SharedObject{}, 0, unresolved(zerr.New("dependency name is not a plain file name"), name, requester)
	}

	for phase := range domain.PhasesDownTo(requester) {
		candidate := filepath.Join(r.layout.Dir(phase), name)

		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				continue
			}
			return domain.SharedObject{}, 0, domain.Classify(domain.ErrIO,
				zerr.With(zerr.Wrap(err, "failed to stat dependency candidate"), "path", candidate))
		}
		if info.IsDir() {
			continue
		}

		return domain.NewSharedObject(candidate), phase, nil
	}

	return domain.SharedObject{}, 0, unresolved(zerr.New("dependency not found in any searched phase"), name, requester)
}

func unresolved(err error, name string, requester domain.Phase) error {
	err = zerr.With(err, "name", name)
	err = zerr.With(err, "phase", requester.String())
	return domain.Classify(domain.ErrUnresolvedDependency, err)
}

// isPlainName reports whether name is a single path element, so that joining
// it to a phase directory cannot leave that directory.
func isPlainName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsRune(name, '/') && !strings.ContainsRune(name, filepath.Separator)
}
