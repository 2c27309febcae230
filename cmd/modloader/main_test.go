package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/modloader/internal/adapters/elf/elftest"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		setup        func(t *testing.T, dir string)
		args         []string
		expectedExit int
	}{
		{
			name: "Dry run with complete mods",
			setup: func(t *testing.T, dir string) {
				elftest.Write(t, filepath.Join(dir, "libs", "libhook.so"), "libc.so")
				elftest.Write(t, filepath.Join(dir, "mods", "libsongs.so"), "libhook.so")
				writeConfig(t, dir, "version: \"1\"\nprovided: [\"libc.so\"]\n")
			},
			args:         []string{"modloader", "load", "--dry-run"},
			expectedExit: 0,
		},
		{
			name: "Dry run with a missing dependency",
			setup: func(t *testing.T, dir string) {
				elftest.Write(t, filepath.Join(dir, "mods", "libsongs.so"), "libquestui.so")
			},
			args:         []string{"modloader", "load", "mods", "--dry-run"},
			expectedExit: 1,
		},
		{
			name: "Invalid config",
			setup: func(t *testing.T, dir string) {
				writeConfig(t, dir, "phases:\n  plugins: plugins\n")
			},
			args:         []string{"modloader", "list", "mods"},
			expectedExit: 1,
		},
		{
			name:         "Version",
			setup:        func(*testing.T, string) {},
			args:         []string{"modloader", "version"},
			expectedExit: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tt.setup(t, tmpDir)

			// Change to tmpDir for relative path resolution
			t.Chdir(tmpDir)

			os.Args = tt.args

			exitCode := run()
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "modloader.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}
