package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/zerr"
)

func obj(path string) domain.SharedObject {
	return domain.NewSharedObject(path)
}

func dep(path string, children ...domain.Dependency) domain.Dependency {
	return domain.Dependency{Object: obj(path), Phase: domain.PhaseLibs, Dependencies: children}
}

func paths(objs []domain.SharedObject) []string {
	res := make([]string, len(objs))
	for i, o := range objs {
		res[i] = o.String()
	}
	return res
}

func TestFlatten_Diamond(t *testing.T) {
	// root needs [B, C], B needs [C]
	deps := []domain.Dependency{
		dep("/libs/B", dep("/libs/C")),
		dep("/libs/C"),
	}

	order := paths(domain.Flatten(deps))

	assert.Equal(t, []string{"/libs/C", "/libs/B"}, order)
}

func TestFlatten_DescendingTieBreak(t *testing.T) {
	deps := []domain.Dependency{
		dep("/libs/a"),
		dep("/libs/c"),
		dep("/libs/b"),
	}

	order := paths(domain.Flatten(deps))

	assert.Equal(t, []string{"/libs/c", "/libs/b", "/libs/a"}, order)
}

func TestFlatten_DeterministicRegardlessOfDeclarationOrder(t *testing.T) {
	first := []domain.Dependency{
		dep("/libs/x", dep("/libs/z"), dep("/libs/y")),
		dep("/libs/w"),
	}
	second := []domain.Dependency{
		dep("/libs/w"),
		dep("/libs/x", dep("/libs/y"), dep("/libs/z")),
	}

	assert.Equal(t, paths(domain.Flatten(first)), paths(domain.Flatten(second)))
}

func TestFlatten_DoesNotMutateInput(t *testing.T) {
	deps := []domain.Dependency{
		dep("/libs/a", dep("/libs/b"), dep("/libs/c")),
	}

	_ = domain.Flatten(deps)

	assert.Equal(t, "/libs/b", deps[0].Dependencies[0].Object.String())
	assert.Equal(t, "/libs/c", deps[0].Dependencies[1].Object.String())
}

func TestFlatten_Empty(t *testing.T) {
	assert.Empty(t, domain.Flatten(nil))
}

// TestFlatten_TopologicalProperty checks every edge of randomly shaped layered
// trees: each path is emitted once and every child precedes its parent.
func TestFlatten_TopologicalProperty(t *testing.T) {
	for seed := 1; seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed_%d", seed), func(t *testing.T) {
			deps := layeredTree(seed)

			order := domain.Flatten(deps)

			index := make(map[string]int, len(order))
			for i, o := range order {
				_, dup := index[o.String()]
				require.False(t, dup, "path %s emitted twice", o)
				index[o.String()] = i
			}

			domain.Walk(deps, func(d domain.Dependency, _ int) {
				parentIdx, ok := index[d.Object.String()]
				require.True(t, ok, "path %s missing from order", d.Object)
				for _, child := range d.Dependencies {
					assert.Less(t, index[child.Object.String()], parentIdx,
						"%s must precede %s", child.Object, d.Object)
				}
			})
		})
	}
}

// layeredTree expands a deterministic DAG over numbered nodes into an owned tree.
// Node i only depends on nodes with a larger number, so the result is acyclic
// and contains diamonds whenever two nodes share a dependency.
func layeredTree(seed int) []domain.Dependency {
	const size = 9
	edges := make(map[int][]int, size)
	state := seed
	for i := range size {
		for j := i + 1; j < size; j++ {
			state = (state*1103515245 + 12345) & 0x7fffffff
			if state%3 == 0 {
				edges[i] = append(edges[i], j)
			}
		}
	}

	var expand func(n int) domain.Dependency
	expand = func(n int) domain.Dependency {
		d := dep(fmt.Sprintf("/libs/lib%d.so", n))
		for _, m := range edges[n] {
			d.Dependencies = append(d.Dependencies, expand(m))
		}
		return d
	}

	return []domain.Dependency{expand(0), expand(1)}
}

func TestCycleError(t *testing.T) {
	path := []domain.SharedObject{obj("/mods/root"), obj("/libs/a"), obj("/libs/b")}

	err := domain.CycleError(path, obj("/libs/a"))

	require.ErrorIs(t, err, domain.ErrCyclicDependency)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr), "expected *zerr.Error in chain, got %T", err)
	assert.Equal(t, "/libs/a -> /libs/b -> /libs/a", zErr.Metadata()["cycle"])
}

func TestClassify(t *testing.T) {
	assert.NoError(t, domain.Classify(domain.ErrIO, nil))

	detail := errors.New("boom")
	err := domain.Classify(domain.ErrIO, detail)

	require.ErrorIs(t, err, domain.ErrIO)
	require.ErrorIs(t, err, detail)
	assert.NotErrorIs(t, err, domain.ErrFormat)
	assert.Contains(t, err.Error(), "boom")
}
