// Package deptree builds the resolved dependency tree of a shared object.
package deptree

import (
	"errors"
	"slices"

	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/modloader/internal/core/ports"
)

// Builder expands the DT_NEEDED names of a shared object into a tree of
// resolved dependencies. It is safe for concurrent use when its extractor and
// resolver are.
type Builder struct {
	extractor ports.Extractor
	resolver  ports.Resolver
	provided  []string
	logger    ports.Logger
}

// NewBuilder creates a new Builder. Names matching one of the provided glob
// patterns are expected to be supplied by the platform when they are not found on disk.
func NewBuilder(extractor ports.Extractor, resolver ports.Resolver, provided []string, logger ports.Logger) *Builder {
	return &Builder{
		extractor: extractor,
		resolver:  resolver,
		provided:  provided,
		logger:    logger,
	}
}

// Build resolves the dependencies of root, which lives in phase.
// Names that cannot be resolved are recorded on the tree instead of failing
// the build. Extraction failures and cycles abort it.
func (b *Builder) Build(root domain.SharedObject, phase domain.Phase) (*domain.Tree, error) {
	state := &buildState{
		tree:   &domain.Tree{Root: root, Phase: phase},
		onPath: make(map[domain.InternedString]struct{}),
		done:   make(map[domain.InternedString][]domain.Dependency),
	}

	deps, err := b.expand(state, root, phase)
	if err != nil {
		return nil, err
	}
	state.tree.Dependencies = deps
	return state.tree, nil
}

type buildState struct {
	tree   *domain.Tree
	path   []domain.SharedObject
	onPath map[domain.InternedString]struct{}
	// done holds finished subtrees. The phase of an object is fixed by the
	// directory it lives in, so a subtree depends on its path only.
	done map[domain.InternedString][]domain.Dependency
}

func (s *buildState) push(obj domain.SharedObject) {
	s.path = append(s.path, obj)
	s.onPath[obj.Path] = struct{}{}
}

func (s *buildState) pop() {
	last := s.path[len(s.path)-1]
	s.path = s.path[:len(s.path)-1]
	delete(s.onPath, last.Path)
}

func (b *Builder) expand(state *buildState, obj domain.SharedObject, phase domain.Phase) ([]domain.Dependency, error) {
	if deps, ok := state.done[obj.Path]; ok {
		return deps, nil
	}

	names, err := b.extractor.Needed(obj.String())
	if err != nil {
		return nil, err
	}

	state.push(obj)
	defer state.pop()

	deps := make([]domain.Dependency, 0, len(names))
	for _, name := range names {
		found, foundPhase, err := b.resolver.Resolve(name, phase)
		if err != nil {
			if !errors.Is(err, domain.ErrUnresolvedDependency) {
				return nil, err
			}
			b.recordMissing(state.tree, name, obj, phase)
			continue
		}

		if _, cyclic := state.onPath[found.Path]; cyclic {
			return nil, domain.CycleError(state.path, found)
		}

		children, err := b.expand(state, found, foundPhase)
		if err != nil {
			return nil, err
		}
		deps = append(deps, domain.Dependency{Object: found, Phase: foundPhase, Dependencies: children})
	}

	state.done[obj.Path] = deps
	return deps, nil
}

func (b *Builder) recordMissing(tree *domain.Tree, name string, requester domain.SharedObject, phase domain.Phase) {
	if domain.MatchesAny(b.provided, name) {
		if !slices.Contains(tree.Provided, name) {
			tree.Provided = append(tree.Provided, name)
		}
		return
	}

	b.logger.Debug("dependency not found", "name", name, "requester", requester.String(), "phase", phase.String())
	tree.Unresolved = append(tree.Unresolved, domain.UnresolvedName{
		Name:      name,
		Requester: requester,
		Phase:     phase,
	})
}
