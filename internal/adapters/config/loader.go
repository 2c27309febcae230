// Package config provides the configuration loader for modloader.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/modloader/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	logger ports.Logger
}

// NewLoader creates a new FileConfigLoader.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{logger: logger}
}

// Load reads the configuration file at path. A missing file yields the defaults
// with the root set to the directory of path.
func (l *FileConfigLoader) Load(configPath string) (*domain.Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve config path"), "path", configPath)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(absPath) //nolint:gosec // path is provided by user
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("config file not found, using defaults", "path", absPath)
		cfg := domain.DefaultConfig()
		cfg.Root = baseDir
		return cfg, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", absPath)
	}

	var modfile Modfile
	if err := yaml.Unmarshal(data, &modfile); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", absPath)
	}

	if modfile.Version != "" && modfile.Version != SupportedVersion {
		l.logger.Warn("unsupported config version", "version", modfile.Version, "supported", SupportedVersion)
	}

	return toDomain(&modfile, baseDir)
}

func toDomain(modfile *Modfile, baseDir string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	cfg.Root = resolvePath(baseDir, modfile.Root)
	if modfile.Root == "" {
		cfg.Root = baseDir
	}

	for key, dir := range modfile.Phases {
		phase, err := domain.ParsePhase(key)
		if err != nil {
			return nil, err
		}
		if dir == "" {
			return nil, zerr.With(zerr.New("phase directory must not be empty"), "phase", key)
		}
		cfg.PhaseDirs[phase] = dir
	}

	for _, pattern := range modfile.Provided {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid provided pattern"), "pattern", pattern)
		}
	}
	cfg.Provided = modfile.Provided

	if modfile.Cache != "" {
		cfg.CachePath = resolvePath(baseDir, modfile.Cache)
	}

	switch {
	case modfile.Parallelism < 0:
		return nil, zerr.With(zerr.New("parallelism must not be negative"), "parallelism", modfile.Parallelism)
	case modfile.Parallelism > 0:
		cfg.Parallelism = modfile.Parallelism
	}

	if modfile.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(modfile.LogLevel)); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid log level"), "log_level", modfile.LogLevel)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
