package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of a load session.
type Telemetry interface {
	// Record starts a new vertex for a unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// ProgressRenderer is implemented by telemetry that can display its vertices
// while a session runs.
type ProgressRenderer interface {
	// RenderProgress starts displaying vertices to out. The returned func
	// stops the display after it caught up with every recorded update.
	RenderProgress(ctx context.Context, out io.Writer) func() error
}

// Vertex represents a unit of work, such as opening one shared object.
type Vertex interface {
	// Stdout returns a writer for progress output of this vertex.
	Stdout() io.Writer
	// Complete marks the vertex as finished, successfully or with an error.
	Complete(err error)
	// Cached marks the vertex as skipped because its work was already done.
	Cached()
}
