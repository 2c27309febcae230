// Package dl opens shared objects into the running process.
package dl

import (
	"errors"
	"sync"

	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/modloader/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Opener = (*Opener)(nil)

// Opener loads shared objects with the platform dynamic linker and keeps the
// handles until Close.
type Opener struct {
	mu      sync.Mutex
	handles []uintptr
}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open loads the shared object at path with immediate binding and global symbol visibility.
func (o *Opener) Open(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	handle, err := dlopen(path)
	if err != nil {
		return domain.Classify(domain.ErrOpenFailed,
			zerr.With(zerr.Wrap(err, "dlopen failed"), "path", path))
	}
	o.handles = append(o.handles, handle)
	return nil
}

// Close releases the handles in reverse order of opening.
func (o *Opener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var errs []error
	for i := len(o.handles) - 1; i >= 0; i-- {
		if err := dlclose(o.handles[i]); err != nil {
			errs = append(errs, zerr.Wrap(err, "dlclose failed"))
		}
	}
	o.handles = nil
	return errors.Join(errs...)
}
