package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vprogrock "github.com/vito/progrock"
	"go.trai.ch/modloader/internal/adapters/telemetry/progrock"
)

// countingWriter counts the updates it receives and whether it was closed.
type countingWriter struct {
	updates int
	closed  bool
}

func (w *countingWriter) WriteStatus(*vprogrock.StatusUpdate) error {
	w.updates++
	return nil
}

func (w *countingWriter) Close() error {
	w.closed = true
	return nil
}

func TestRecorder_Integration(t *testing.T) {
	base := &countingWriter{}
	recorder := progrock.NewRecorder(base)
	ctx := context.Background()

	_, vertex := recorder.Record(ctx, "load /data/mods/libfoo.so")
	_, err := vertex.Stdout().Write([]byte("opened /data/mods/libfoo.so\n"))
	require.NoError(t, err)
	vertex.Complete(nil)

	_, cached := recorder.Record(ctx, "load /data/libs/libbar.so")
	cached.Cached()
	cached.Complete(nil)

	_, failed := recorder.Record(ctx, "load /data/mods/libbroken.so")
	failed.Complete(errors.New("dlopen failed"))

	require.NoError(t, recorder.Close())
	assert.True(t, base.closed)
	// Group creation, one update per vertex start, log and state change.
	assert.Greater(t, base.updates, 6)
}
