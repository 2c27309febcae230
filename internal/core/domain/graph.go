package domain

import (
	"cmp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Flatten orders the given dependency trees into a single load order.
// Every path appears exactly once and after all of the objects it requires.
// Siblings are visited in descending lexical path order so the result does
// not depend on the declaration order inside the binaries.
// The trees must be acyclic; Builder rejects cycles before flattening.
func Flatten(deps []Dependency) []SharedObject {
	order := make([]SharedObject, 0, len(deps))
	visited := make(map[InternedString]struct{})

	var visit func(d *Dependency)
	visit = func(d *Dependency) {
		if _, seen := visited[d.Object.Path]; seen {
			return
		}
		visited[d.Object.Path] = struct{}{}

		for _, i := range descendingOrder(d.Dependencies) {
			visit(&d.Dependencies[i])
		}

		order = append(order, d.Object)
	}

	for _, i := range descendingOrder(deps) {
		visit(&deps[i])
	}

	return order
}

// descendingOrder returns the indexes of deps sorted by descending path.
// deps itself is left untouched.
func descendingOrder(deps []Dependency) []int {
	idx := make([]int, len(deps))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(deps[b].Object.Path.String(), deps[a].Object.Path.String())
	})
	return idx
}

// Walk yields every node of the trees in depth-first pre-order, duplicates included.
func Walk(deps []Dependency, fn func(d Dependency, depth int)) {
	var visit func(d Dependency, depth int)
	visit = func(d Dependency, depth int) {
		fn(d, depth)
		for _, child := range d.Dependencies {
			visit(child, depth+1)
		}
	}
	for _, d := range deps {
		visit(d, 0)
	}
}

// CycleError builds an ErrCyclicDependency error carrying the cycle path,
// starting at the first occurrence of reentered on path.
func CycleError(path []SharedObject, reentered SharedObject) error {
	startIdx := slices.Index(path, reentered)
	if startIdx < 0 {
		startIdx = 0
	}

	var b strings.Builder
	for _, node := range path[startIdx:] {
		b.WriteString(node.String())
		b.WriteString(" -> ")
	}
	b.WriteString(reentered.String())

	return Classify(ErrCyclicDependency,
		zerr.With(zerr.New("shared object requires itself"), "cycle", b.String()))
}
