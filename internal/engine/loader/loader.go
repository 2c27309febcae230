// Package loader opens shared objects in dependency order.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/modloader/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TreeBuilder resolves the dependency tree of a shared object.
type TreeBuilder interface {
	Build(root domain.SharedObject, phase domain.Phase) (*domain.Tree, error)
}

// Loader opens batches of top-level shared objects together with their
// dependencies, each path at most once per LoadSet.
type Loader struct {
	trees       TreeBuilder
	opener      ports.Opener
	telemetry   ports.Telemetry
	logger      ports.Logger
	parallelism int
}

// New creates a new Loader. A parallelism above one builds the trees of a
// batch concurrently; opening always happens sequentially.
func New(
	trees TreeBuilder,
	opener ports.Opener,
	telemetry ports.Telemetry,
	logger ports.Logger,
	parallelism int,
) *Loader {
	return &Loader{
		trees:       trees,
		opener:      opener,
		telemetry:   telemetry,
		logger:      logger,
		parallelism: max(parallelism, 1),
	}
}

type treeResult struct {
	tree *domain.Tree
	err  error
}

// LoadBatch loads objects, which belong to phase, in order. Objects already in
// loaded are skipped. Each object that could not be fully loaded is reported as
// a failure without affecting the others. A cancelled context stops the batch
// between objects; the failures gathered so far are returned with ctx.Err().
func (l *Loader) LoadBatch(
	ctx context.Context,
	objects []domain.SharedObject,
	phase domain.Phase,
	loaded *domain.LoadSet,
) ([]domain.LoadFailure, error) {
	results, err := l.prefetch(ctx, objects, phase, loaded)
	if err != nil {
		return nil, err
	}

	var failures []domain.LoadFailure
	for i, obj := range objects {
		if err := ctx.Err(); err != nil {
			return failures, err
		}

		objCtx, vertex := l.telemetry.Record(ctx, "load "+obj.String())
		if loaded.Contains(obj) {
			vertex.Cached()
			vertex.Complete(nil)
			continue
		}

		res := results[i]
		if res == nil {
			tree, err := l.trees.Build(obj, phase)
			res = &treeResult{tree: tree, err: err}
		}

		err := res.err
		if err == nil {
			err = l.load(objCtx, res.tree, loaded, vertex.Stdout())
		}
		vertex.Complete(err)

		if err != nil {
			l.logger.Warn("failed to load shared object", "path", obj.String(), "error", err)
			failures = append(failures, domain.LoadFailure{Object: obj, Err: err})
			continue
		}
		l.logger.Debug("loaded shared object", "path", obj.String(), "phase", phase.String())
	}

	return failures, nil
}

// prefetch builds the trees of objects concurrently. It returns nil results
// when the batch is built inline.
func (l *Loader) prefetch(
	ctx context.Context,
	objects []domain.SharedObject,
	phase domain.Phase,
	loaded *domain.LoadSet,
) ([]*treeResult, error) {
	results := make([]*treeResult, len(objects))
	if l.parallelism <= 1 || len(objects) <= 1 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallelism)
	for i, obj := range objects {
		if loaded.Contains(obj) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tree, err := l.trees.Build(obj, phase)
			results[i] = &treeResult{tree: tree, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// load opens the dependencies of tree in flattened order, then its root, and
// writes each opened path to progress.
func (l *Loader) load(ctx context.Context, tree *domain.Tree, loaded *domain.LoadSet, progress io.Writer) error {
	if !tree.Complete() {
		return unresolvedError(tree)
	}

	for _, dep := range domain.Flatten(tree.Dependencies) {
		if loaded.Contains(dep) {
			continue
		}
		if err := l.open(ctx, dep, loaded); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(progress, "opened %s\n", dep)
	}
	if err := l.open(ctx, tree.Root, loaded); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(progress, "opened %s\n", tree.Root)
	return nil
}

func (l *Loader) open(ctx context.Context, obj domain.SharedObject, loaded *domain.LoadSet) error {
	_, vertex := l.telemetry.Record(ctx, "open "+obj.String())

	if err := l.opener.Open(obj.String()); err != nil {
		if !errors.Is(err, domain.ErrOpenFailed) {
			err = domain.Classify(domain.ErrOpenFailed,
				zerr.With(zerr.Wrap(err, "failed to open shared object"), "path", obj.String()))
		}
		vertex.Complete(err)
		return err
	}

	loaded.Add(obj)
	vertex.Complete(nil)
	return nil
}

func unresolvedError(tree *domain.Tree) error {
	names := make([]string, len(tree.Unresolved))
	for i, u := range tree.Unresolved {
		names[i] = u.Name
	}
	err := zerr.With(zerr.New("dependencies not found"), "path", tree.Root.String())
	return domain.Classify(domain.ErrUnresolvedDependency, zerr.With(err, "missing", strings.Join(names, ", ")))
}
