package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modloader/internal/adapters/elf"
	"go.trai.ch/modloader/internal/adapters/elf/elftest"
	"go.trai.ch/modloader/internal/adapters/fs"
	"go.trai.ch/modloader/internal/adapters/logger"
	"go.trai.ch/modloader/internal/adapters/telemetry"
	"go.trai.ch/modloader/internal/adapters/telemetry/progrock"
	"go.trai.ch/modloader/internal/app"
	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/modloader/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// newRoot lays out a small mod tree:
//
//	libs/libhook.so         -> libc.so
//	libs/libtypes.so        -> libhook.so
//	early_mods/libcore.so   -> libtypes.so
//	mods/libsongs.so        -> libcore.so libhook.so
//	mods/libbroken.so       -> libquestui.so
func newRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	elftest.Write(t, filepath.Join(root, "libs", "libhook.so"), "libc.so")
	elftest.Write(t, filepath.Join(root, "libs", "libtypes.so"), "libhook.so")
	elftest.Write(t, filepath.Join(root, "early_mods", "libcore.so"), "libtypes.so")
	elftest.Write(t, filepath.Join(root, "mods", "libsongs.so"), "libcore.so", "libhook.so")
	elftest.Write(t, filepath.Join(root, "mods", "libbroken.so"), "libquestui.so")
	return root
}

type harness struct {
	app          *app.App
	configLoader *mocks.MockConfigLoader
	opener       *mocks.MockOpener
	logs         *bytes.Buffer
}

func newHarness(t *testing.T, cfg *domain.Config) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		configLoader: mocks.NewMockConfigLoader(ctrl),
		opener:       mocks.NewMockOpener(ctrl),
		logs:         new(bytes.Buffer),
	}
	if cfg != nil {
		h.configLoader.EXPECT().Load("modloader.yaml").Return(cfg, nil).AnyTimes()
	}
	h.app = app.New(h.configLoader, elf.NewExtractor(), fs.NewHasher(), h.opener,
		telemetry.NewNoOp(), logger.NewWithWriter(h.logs))
	return h
}

func configFor(root string) *domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Root = root
	cfg.Provided = []string{"libc.so"}
	return cfg
}

var opts = app.Options{ConfigPath: "modloader.yaml"}

func TestApp_Needed(t *testing.T) {
	root := newRoot(t)
	h := newHarness(t, configFor(root))

	names, err := h.app.Needed(opts, filepath.Join(root, "mods", "libsongs.so"))

	require.NoError(t, err)
	assert.Equal(t, []string{"libcore.so", "libhook.so"}, names)
}

func TestApp_Needed_UsesCache(t *testing.T) {
	root := newRoot(t)
	cfg := configFor(root)
	cfg.CachePath = filepath.Join(t.TempDir(), "cache", "needed.json")
	h := newHarness(t, cfg)

	_, err := h.app.Needed(opts, filepath.Join(root, "libs", "libtypes.so"))
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.CachePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "libhook.so")
}

func TestApp_Order(t *testing.T) {
	root := newRoot(t)
	h := newHarness(t, configFor(root))

	order, tree, err := h.app.Order(opts, filepath.Join(root, "mods", "libsongs.so"), domain.PhaseMods)
	require.NoError(t, err)

	assert.True(t, tree.Complete())
	assert.Equal(t, []string{"libc.so"}, tree.Provided)
	names := make([]string, len(order))
	for i, o := range order {
		names[i] = o.Name()
	}
	assert.Equal(t, []string{"libhook.so", "libtypes.so", "libcore.so", "libsongs.so"}, names)
}

func TestApp_Tree_RespectsPhaseCeiling(t *testing.T) {
	root := newRoot(t)
	h := newHarness(t, configFor(root))

	// From the libs phase, libcore.so (early_mods) is out of reach.
	tree, err := h.app.Tree(opts, filepath.Join(root, "mods", "libsongs.so"), domain.PhaseLibs)
	require.NoError(t, err)

	require.Len(t, tree.Unresolved, 1)
	assert.Equal(t, "libcore.so", tree.Unresolved[0].Name)
}

func TestApp_List_RootOverride(t *testing.T) {
	root := newRoot(t)
	h := newHarness(t, configFor(t.TempDir()))

	objects, err := h.app.List(app.Options{ConfigPath: "modloader.yaml", Root: root}, domain.PhaseMods)
	require.NoError(t, err)

	require.Len(t, objects, 2)
	assert.Equal(t, "libbroken.so", objects[0].Name())
	assert.Equal(t, "libsongs.so", objects[1].Name())
}

func TestApp_Load(t *testing.T) {
	root := newRoot(t)
	h := newHarness(t, configFor(root))

	gomock.InOrder(
		h.opener.EXPECT().Open(filepath.Join(root, "libs", "libhook.so")).Return(nil),
		h.opener.EXPECT().Open(filepath.Join(root, "libs", "libtypes.so")).Return(nil),
		h.opener.EXPECT().Open(filepath.Join(root, "early_mods", "libcore.so")).Return(nil),
		h.opener.EXPECT().Open(filepath.Join(root, "mods", "libsongs.so")).Return(nil),
	)

	reports, err := h.app.Load(context.Background(), app.LoadOptions{Options: opts}, nil)

	require.ErrorIs(t, err, domain.ErrLoadFailed)
	require.Len(t, reports, 2)
	assert.Equal(t, domain.PhaseEarlyMods, reports[0].Phase)
	assert.Empty(t, reports[0].Failures)
	require.Len(t, reports[1].Failures, 1)
	assert.Equal(t, "libbroken.so", reports[1].Failures[0].Object.Name())
	assert.ErrorIs(t, reports[1].Failures[0].Err, domain.ErrUnresolvedDependency)
	assert.Contains(t, h.logs.String(), "phase finished with failures")
}

func TestApp_Load_DryRun(t *testing.T) {
	root := newRoot(t)
	h := newHarness(t, configFor(root))

	reports, err := h.app.Load(context.Background(),
		app.LoadOptions{Options: opts, DryRun: true}, []domain.Phase{domain.PhaseEarlyMods})

	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Contains(t, h.logs.String(), "would open shared object")
	assert.Contains(t, h.logs.String(), "libcore.so")
	assert.Contains(t, h.logs.String(), "dry run finished")
}

func TestApp_Load_Progress(t *testing.T) {
	root := newRoot(t)
	ctrl := gomock.NewController(t)
	configLoader := mocks.NewMockConfigLoader(ctrl)
	configLoader.EXPECT().Load("modloader.yaml").Return(configFor(root), nil)

	recorder := progrock.New()
	a := app.New(configLoader, elf.NewExtractor(), fs.NewHasher(), mocks.NewMockOpener(ctrl),
		recorder, logger.NewWithWriter(io.Discard))
	var progress lockedBuffer

	_, err := a.Load(context.Background(),
		app.LoadOptions{Options: opts, DryRun: true, Progress: &progress}, []domain.Phase{domain.PhaseEarlyMods})

	require.NoError(t, err)
	assert.Contains(t, progress.String(), "load "+filepath.Join(root, "early_mods", "libcore.so"))
	assert.Contains(t, progress.String(), "1 loaded, 0 failed")
	assert.NoError(t, recorder.Close())
}

func TestApp_Load_ProgressNeedsRenderer(t *testing.T) {
	root := newRoot(t)
	h := newHarness(t, configFor(root))
	var progress lockedBuffer

	_, err := h.app.Load(context.Background(),
		app.LoadOptions{Options: opts, DryRun: true, Progress: &progress}, []domain.Phase{domain.PhaseEarlyMods})

	require.NoError(t, err)
	assert.Empty(t, progress.String())
}

// lockedBuffer lets the progress display write while the test reads.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestApp_ConfigError(t *testing.T) {
	h := newHarness(t, nil)
	h.configLoader.EXPECT().Load("modloader.yaml").Return(nil, errors.New("boom"))

	_, err := h.app.List(opts, domain.PhaseMods)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestApp_Close(t *testing.T) {
	h := newHarness(t, nil)
	h.opener.EXPECT().Close().Return(errors.New("dlclose failed"))

	err := h.app.Close()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close opener")
}
