// Package progrock records load session vertices with vito/progrock and can
// display them live through the terminal UI.
package progrock

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/modloader/internal/core/ports"
	"go.trai.ch/modloader/internal/tui"
)

var (
	_ ports.Telemetry        = (*Recorder)(nil)
	_ ports.ProgressRenderer = (*Recorder)(nil)
	_ progrock.Writer        = (*Recorder)(nil)
)

// Recorder implements ports.Telemetry. Every update goes to the base writer
// and to each attached watcher.
type Recorder struct {
	base progrock.Writer
	rec  *progrock.Recorder

	mu       sync.Mutex
	watchers []progrock.Writer
}

// New creates a Recorder that keeps updates only for its watchers.
func New() *Recorder {
	return NewRecorder(progrock.Discard{})
}

// NewRecorder creates a Recorder that also writes every update to w.
func NewRecorder(w progrock.Writer) *Recorder {
	r := &Recorder{base: w}
	r.rec = progrock.NewRecorder(r)
	return r
}

// Record starts recording a new vertex named after the unit of work.
// Shared object paths are unique within a session, so the digest of the name
// identifies the vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(digest.FromString(name), name)
	return ctx, &Vertex{vertex: v}
}

// WriteStatus implements progrock.Writer.
func (r *Recorder) WriteStatus(update *progrock.StatusUpdate) error {
	r.mu.Lock()
	watchers := slices.Clone(r.watchers)
	r.mu.Unlock()

	errs := []error{r.base.WriteStatus(update)}
	for _, w := range watchers {
		errs = append(errs, w.WriteStatus(update))
	}
	return errors.Join(errs...)
}

// Watch attaches a reader that receives every update recorded from now on.
// The returned func detaches it; the reader then drains and ends.
func (r *Recorder) Watch() (progrock.Reader, func()) {
	reader, writer := progrock.Pipe()

	r.mu.Lock()
	r.watchers = append(r.watchers, writer)
	r.mu.Unlock()

	var once sync.Once
	return reader, func() {
		once.Do(func() {
			r.mu.Lock()
			r.watchers = slices.DeleteFunc(r.watchers, func(w progrock.Writer) bool { return w == writer })
			r.mu.Unlock()
			_ = writer.Close()
		})
	}
}

// RenderProgress displays the vertices recorded from now on to out. The
// returned func stops the display once it has shown every pending update.
func (r *Recorder) RenderProgress(ctx context.Context, out io.Writer) func() error {
	reader, detach := r.Watch()
	done := make(chan error, 1)
	go func() {
		done <- tui.Run(ctx, reader, out)
	}()
	return func() error {
		detach()
		return <-done
	}
}

// Close detaches every watcher and closes the base writer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	watchers := r.watchers
	r.watchers = nil
	r.mu.Unlock()

	var errs []error
	for _, w := range watchers {
		errs = append(errs, w.Close())
	}
	errs = append(errs, r.base.Close())
	return errors.Join(errs...)
}
