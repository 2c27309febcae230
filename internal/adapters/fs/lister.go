package fs

import (
	"errors"
	iofs "io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/modloader/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Lister = (*Lister)(nil)

// Lister enumerates the top-level candidates of a phase directory.
type Lister struct {
	layout Layout
}

// NewLister creates a new Lister over layout.
func NewLister(layout Layout) *Lister {
	return &Lister{layout: layout}
}

// List returns the files placed directly in the directory of phase, sorted by name.
// PhaseLibs is never loaded on its own and always yields an empty list, as
// does a phase whose directory does not exist.
func (l *Lister) List(phase domain.Phase) ([]domain.SharedObject, error) {
	if phase == domain.PhaseLibs {
		return nil, nil
	}

	dir := l.layout.Dir(phase)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, domain.Classify(domain.ErrIO,
			zerr.With(zerr.Wrap(err, "failed to read phase directory"), "path", dir))
	}

	var objects []domain.SharedObject
	for name := range candidates(entries) {
		objects = append(objects, domain.NewSharedObject(filepath.Join(dir, name)))
	}
	return objects, nil
}

// candidates yields the names of non-directory, non-hidden entries.
// os.ReadDir already returns entries sorted by file name.
func candidates(entries []iofs.DirEntry) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			if !yield(e.Name()) {
				return
			}
		}
	}
}
