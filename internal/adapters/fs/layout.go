package fs

import (
	"path/filepath"

	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/zerr"
)

// Layout maps every phase to its directory under an absolute root.
type Layout struct {
	root string
	dirs map[domain.Phase]string
}

// NewLayout creates a Layout for root. Missing phases in dirs fall back to
// their canonical directory names.
func NewLayout(root string, dirs map[domain.Phase]string) (Layout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, zerr.With(zerr.Wrap(err, "failed to resolve root directory"), "root", root)
	}

	merged := domain.DefaultPhaseDirs()
	for phase, dir := range dirs {
		if dir != "" {
			merged[phase] = dir
		}
	}

	return Layout{root: abs, dirs: merged}, nil
}

// NewLayoutFromConfig creates the Layout described by cfg.
func NewLayoutFromConfig(cfg *domain.Config) (Layout, error) {
	return NewLayout(cfg.Root, cfg.PhaseDirs)
}

// Root returns the absolute root directory.
func (l Layout) Root() string {
	return l.root
}

// Dir returns the absolute directory of phase.
func (l Layout) Dir(phase domain.Phase) string {
	return filepath.Join(l.root, l.dirs[phase])
}
