package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modloader/internal/app"
	"go.trai.ch/modloader/internal/core/ports"
	_ "go.trai.ch/modloader/internal/wiring"
)

// TestGraftDependencies ensures that the dependency injection graph is valid
// at compile/test time. It checks that every node declaring a dependency
// actually uses it, and every used dependency is declared.
func TestGraftDependencies(t *testing.T) {
	// graft.AssertDepsValid infers the dependency ID from the package name of
	// the interface used in Dep[T], which does not fit several nodes providing
	// interfaces from the shared ports package.
	t.Skip("Skipping Graft validation due to static analysis limitation with shared ports package")
	graft.AssertDepsValid(t, "../../internal")
}

func TestGraftResolvesEveryPort(t *testing.T) {
	ctx := context.Background()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	require.NoError(t, err)
	require.NotNil(t, components.App)

	opener, _, err := graft.ExecuteFor[ports.Opener](ctx)
	require.NoError(t, err)
	require.NotNil(t, opener)

	tel, _, err := graft.ExecuteFor[ports.Telemetry](ctx)
	require.NoError(t, err)
	require.NoError(t, tel.Close())
}
