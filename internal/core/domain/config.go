package domain

import (
	"log/slog"
	"path"
)

// Config holds the resolved loader configuration.
type Config struct {
	// Root is the directory that contains one subdirectory per phase.
	Root string
	// PhaseDirs maps each phase to its directory name under Root.
	PhaseDirs map[Phase]string
	// Provided holds glob patterns of dependency names supplied by the platform.
	Provided []string
	// CachePath is the location of the extraction cache. Empty disables caching.
	CachePath string
	// Parallelism bounds the number of dependency trees built concurrently.
	Parallelism int
	// LogLevel is the minimum level written by the logger.
	LogLevel slog.Level
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Root:        ".",
		PhaseDirs:   DefaultPhaseDirs(),
		Parallelism: 1,
		LogLevel:    slog.LevelInfo,
	}
}

// DefaultPhaseDirs returns the conventional directory name of every phase.
func DefaultPhaseDirs() map[Phase]string {
	dirs := make(map[Phase]string, len(Phases))
	for _, p := range Phases {
		dirs[p] = p.String()
	}
	return dirs
}

// MatchesAny reports whether name matches one of the glob patterns.
// Malformed patterns never match.
func MatchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
