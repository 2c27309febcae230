package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modloader/internal/adapters/telemetry"
)

func TestNoOp(t *testing.T) {
	tel := telemetry.NewNoOp()
	ctx := context.Background()

	gotCtx, vertex := tel.Record(ctx, "/mods/liba.so")
	assert.Equal(t, ctx, gotCtx)

	n, err := vertex.Stdout().Write([]byte("progress"))
	require.NoError(t, err)
	assert.Equal(t, len("progress"), n)

	vertex.Cached()
	vertex.Complete(errors.New("ignored"))
	assert.NoError(t, tel.Close())
}
