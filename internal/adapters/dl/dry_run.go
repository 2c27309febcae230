package dl

import (
	"slices"
	"sync"

	"go.trai.ch/modloader/internal/core/ports"
)

var _ ports.Opener = (*DryRun)(nil)

// DryRun records the paths it is asked to open without loading anything.
type DryRun struct {
	mu     sync.Mutex
	logger ports.Logger
	opened []string
}

// NewDryRun creates a DryRun opener that logs each path at info level.
func NewDryRun(logger ports.Logger) *DryRun {
	return &DryRun{logger: logger}
}

// Open records path.
func (d *DryRun) Open(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.opened = append(d.opened, path)
	d.logger.Info("would open shared object", "path", path)
	return nil
}

// Close does nothing.
func (d *DryRun) Close() error {
	return nil
}

// Opened returns the recorded paths in open order.
func (d *DryRun) Opened() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.opened)
}
