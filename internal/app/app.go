// Package app implements the application layer for modloader.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"go.trai.ch/modloader/internal/adapters/cas"
	"go.trai.ch/modloader/internal/adapters/dl"
	"go.trai.ch/modloader/internal/adapters/fs"
	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/modloader/internal/core/ports"
	"go.trai.ch/modloader/internal/engine/deptree"
	"go.trai.ch/modloader/internal/engine/loader"
	"go.trai.ch/zerr"
)

// DefaultLoadPhases are the phases a session loads when none are named.
// Libs are never loaded on their own; they are opened as dependencies.
var DefaultLoadPhases = []domain.Phase{domain.PhaseEarlyMods, domain.PhaseMods}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	extractor    ports.Extractor
	hasher       ports.Hasher
	opener       ports.Opener
	telemetry    ports.Telemetry
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	configLoader ports.ConfigLoader,
	extractor ports.Extractor,
	hasher ports.Hasher,
	opener ports.Opener,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		configLoader: configLoader,
		extractor:    extractor,
		hasher:       hasher,
		opener:       opener,
		telemetry:    telemetry,
		logger:       log,
	}
}

// Options holds the settings shared by every command.
type Options struct {
	// ConfigPath is the path of the configuration file.
	ConfigPath string
	// Root overrides the root directory of the configuration when set.
	Root string
}

// LoadOptions configures a load session.
type LoadOptions struct {
	Options
	// DryRun logs the objects that would be opened without opening them.
	DryRun bool
	// Progress receives a live view of the session when the telemetry can
	// render one.
	Progress io.Writer
}

// pipeline holds the components built from one configuration.
type pipeline struct {
	cfg       *domain.Config
	layout    fs.Layout
	extractor ports.Extractor
	resolver  *fs.Resolver
	lister    *fs.Lister
	builder   *deptree.Builder
}

func (a *App) pipeline(opts Options) (*pipeline, error) {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.Root != "" {
		cfg.Root = opts.Root
	}

	if l, ok := a.logger.(interface{ SetLevel(slog.Level) }); ok {
		l.SetLevel(cfg.LogLevel)
	}

	layout, err := fs.NewLayoutFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	extractor := a.extractor
	if cfg.CachePath != "" {
		store, err := cas.NewStore(cfg.CachePath)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to open dependency cache")
		}
		extractor = cas.NewCachingExtractor(extractor, a.hasher, store, a.logger)
	}

	resolver := fs.NewResolver(layout)
	return &pipeline{
		cfg:       cfg,
		layout:    layout,
		extractor: extractor,
		resolver:  resolver,
		lister:    fs.NewLister(layout),
		builder:   deptree.NewBuilder(extractor, resolver, cfg.Provided, a.logger),
	}, nil
}

// Needed returns the DT_NEEDED names declared by file.
func (a *App) Needed(opts Options, file string) ([]string, error) {
	p, err := a.pipeline(opts)
	if err != nil {
		return nil, err
	}
	return p.extractor.Needed(absPath(file))
}

// Tree resolves the dependency tree of file as if it lived in phase.
func (a *App) Tree(opts Options, file string, phase domain.Phase) (*domain.Tree, error) {
	p, err := a.pipeline(opts)
	if err != nil {
		return nil, err
	}
	return p.builder.Build(domain.NewSharedObject(absPath(file)), phase)
}

// Order returns the objects in the order they would be opened to load file,
// file itself last, together with the tree they were taken from.
func (a *App) Order(opts Options, file string, phase domain.Phase) ([]domain.SharedObject, *domain.Tree, error) {
	tree, err := a.Tree(opts, file, phase)
	if err != nil {
		return nil, nil, err
	}
	order := append(domain.Flatten(tree.Dependencies), tree.Root)
	return order, tree, nil
}

// List returns the top-level candidates of phase.
func (a *App) List(opts Options, phase domain.Phase) ([]domain.SharedObject, error) {
	p, err := a.pipeline(opts)
	if err != nil {
		return nil, err
	}
	return p.lister.List(phase)
}

// Load runs a session over phases, or DefaultLoadPhases when none are given.
// It returns domain.ErrLoadFailed together with the reports when any object failed.
func (a *App) Load(ctx context.Context, opts LoadOptions, phases []domain.Phase) ([]loader.Report, error) {
	p, err := a.pipeline(opts.Options)
	if err != nil {
		return nil, err
	}
	if len(phases) == 0 {
		phases = DefaultLoadPhases
	}

	opener := a.opener
	var dryRun *dl.DryRun
	if opts.DryRun {
		dryRun = dl.NewDryRun(a.logger)
		opener = dryRun
	}

	l := loader.New(p.builder, opener, a.telemetry, a.logger, p.cfg.Parallelism)
	session := loader.NewSession(l, p.lister, a.logger)

	stopProgress := a.renderProgress(ctx, opts.Progress)
	reports, err := session.Run(ctx, phases...)
	stopProgress()
	if err != nil {
		return reports, err
	}

	a.logger.Info("session finished",
		"session", session.ID.String(), "root", p.layout.Root(), "loaded", session.Loaded.Len())
	if dryRun != nil {
		a.logger.Info("dry run finished, nothing was opened", "would_open", len(dryRun.Opened()))
	}
	if loader.Failed(reports) {
		return reports, domain.ErrLoadFailed
	}
	return reports, nil
}

// renderProgress starts the live view on out if requested and supported.
// The returned func stops it.
func (a *App) renderProgress(ctx context.Context, out io.Writer) func() {
	renderer, ok := a.telemetry.(ports.ProgressRenderer)
	if out == nil || !ok {
		return func() {}
	}
	stop := renderer.RenderProgress(ctx, out)
	return func() {
		if err := stop(); err != nil && ctx.Err() == nil {
			a.logger.Warn("progress display stopped", "error", err)
		}
	}
}

// Close releases the opened shared objects and flushes telemetry.
func (a *App) Close() error {
	var errs []error
	if err := a.opener.Close(); err != nil {
		errs = append(errs, zerr.Wrap(err, "failed to close opener"))
	}
	if err := a.telemetry.Close(); err != nil {
		errs = append(errs, zerr.Wrap(err, "failed to close telemetry"))
	}
	return errors.Join(errs...)
}

func absPath(file string) string {
	if abs, err := filepath.Abs(file); err == nil {
		return abs
	}
	return file
}
