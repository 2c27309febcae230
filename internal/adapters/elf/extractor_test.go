package elf_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modloader/internal/adapters/elf"
	"go.trai.ch/modloader/internal/adapters/elf/elftest"
	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/zerr"
)

func writeImage(t *testing.T, img *elftest.Image) string {
	t.Helper()
	return img.WriteFile(t, filepath.Join(t.TempDir(), "lib.so"))
}

func TestExtractor_Needed(t *testing.T) {
	tests := []struct {
		name   string
		needed []string
		opts   elftest.Options
	}{
		{name: "little endian", needed: []string{"libbeatsaber-hook.so", "libc.so", "liblog.so"}},
		{name: "big endian", needed: []string{"libB.so", "libC.so"}, opts: elftest.Options{BigEndian: true}},
		{name: "declaration order kept", needed: []string{"libz.so", "liba.so", "libm.so"}},
		{name: "no needed entries", needed: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeImage(t, elftest.Build(tt.needed, tt.opts))

			names, err := elf.NewExtractor().Needed(path)

			require.NoError(t, err)
			assert.Equal(t, tt.needed, names)
		})
	}
}

func TestExtractor_Needed_NoDynamicSection(t *testing.T) {
	path := writeImage(t, elftest.Build(nil, elftest.Options{NoDynamic: true}))

	names, err := elf.NewExtractor().Needed(path)

	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestExtractor_Needed_NoSectionTable(t *testing.T) {
	img := elftest.Build([]string{"libc.so"}, elftest.Options{})
	img.PutUint64(40, 0)

	names, err := elf.NewExtractor().Needed(writeImage(t, img))

	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestExtractor_Needed_SkipsEmptyNames(t *testing.T) {
	img := elftest.Build([]string{"liba.so", "libb.so"}, elftest.Options{})
	// Offset 0 of the string table is the leading NUL: an empty name.
	img.SetNeededOffset(0, 0)

	names, err := elf.NewExtractor().Needed(writeImage(t, img))

	require.NoError(t, err)
	assert.Equal(t, []string{"libb.so"}, names)
}

func TestExtractor_Needed_ExtendedSectionCount(t *testing.T) {
	img := elftest.Build([]string{"liba.so"}, elftest.Options{})
	img.PutUint16(60, 0)
	img.SetSectionField(elftest.SectionNull, 32, 3)

	names, err := elf.NewExtractor().Needed(writeImage(t, img))

	require.NoError(t, err)
	assert.Equal(t, []string{"liba.so"}, names)
}

func TestExtractor_Needed_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(img *elftest.Image)
	}{
		{
			name:    "needed offset outside the file",
			corrupt: func(img *elftest.Image) { img.SetNeededOffset(0, 1<<40) },
		},
		{
			name:    "needed offset near uint64 overflow",
			corrupt: func(img *elftest.Image) { img.SetNeededOffset(0, ^uint64(0)) },
		},
		{
			name:    "section header table outside the file",
			corrupt: func(img *elftest.Image) { img.PutUint64(40, 1<<32) },
		},
		{
			name:    "section count larger than the file",
			corrupt: func(img *elftest.Image) { img.PutUint16(60, 0xffff) },
		},
		{
			name:    "section header entry too small",
			corrupt: func(img *elftest.Image) { img.PutUint16(58, 16) },
		},
		{
			name: "dynamic section outside the file",
			corrupt: func(img *elftest.Image) {
				img.SetSectionField(elftest.SectionDynamic, 24, 1<<20)
			},
		},
		{
			name: "dynamic size overflows",
			corrupt: func(img *elftest.Image) {
				img.SetSectionField(elftest.SectionDynamic, 32, ^uint64(0))
			},
		},
		{
			name: "string table outside the file",
			corrupt: func(img *elftest.Image) {
				img.SetSectionField(elftest.SectionStrtab, 32, 1<<30)
			},
		},
		{
			name:    "string table link out of range",
			corrupt: func(img *elftest.Image) { img.SetSectionLink(elftest.SectionDynamic, 9) },
		},
		{
			name:    "string table link to a non string table",
			corrupt: func(img *elftest.Image) { img.SetSectionLink(elftest.SectionDynamic, elftest.SectionDynamic) },
		},
		{
			name: "dynamic entry size too small",
			corrupt: func(img *elftest.Image) {
				img.SetSectionField(elftest.SectionDynamic, 56, 4)
			},
		},
		{
			name: "dynamic entry size overflows",
			corrupt: func(img *elftest.Image) {
				img.SetSectionField(elftest.SectionDynamic, 56, 0xFFFFFFFFFFFFFFF8)
			},
		},
		{
			name: "dynamic entry size larger than the section",
			corrupt: func(img *elftest.Image) {
				img.SetSectionField(elftest.SectionDynamic, 56, 1<<12)
			},
		},
		{
			name:    "not a 64-bit file",
			corrupt: func(img *elftest.Image) { img.Data[4] = 1 },
		},
		{
			name:    "bad magic",
			corrupt: func(img *elftest.Image) { img.Data[1] = 'X' },
		},
		{
			name:    "unknown data encoding",
			corrupt: func(img *elftest.Image) { img.Data[5] = 7 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := elftest.Build([]string{"liba.so", "libb.so"}, elftest.Options{})
			tt.corrupt(img)

			names, err := elf.NewExtractor().Needed(writeImage(t, img))

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrFormat)
			assert.NotErrorIs(t, err, domain.ErrIO)
			assert.Nil(t, names)
		})
	}
}

func TestExtractor_Needed_UnterminatedName(t *testing.T) {
	img := elftest.Build([]string{"liba.so"}, elftest.Options{})
	// Shrink the string table so that "liba.so" loses its terminator.
	img.SetSectionField(elftest.SectionStrtab, 32, 1+uint64(len("liba.so")))

	_, err := elf.NewExtractor().Needed(writeImage(t, img))

	require.ErrorIs(t, err, domain.ErrFormat)
	assert.Contains(t, err.Error(), "NUL-terminated")
}

func TestExtractor_Needed_ErrorCarriesPath(t *testing.T) {
	img := elftest.Build([]string{"liba.so"}, elftest.Options{})
	img.SetNeededOffset(0, 1<<40)
	path := writeImage(t, img)

	_, err := elf.NewExtractor().Needed(path)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr), "expected *zerr.Error in chain, got %T", err)
	assert.Equal(t, path, zErr.Metadata()["path"])
}

func TestExtractor_Needed_IOErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := elf.NewExtractor().Needed(filepath.Join(dir, "missing.so"))
		require.ErrorIs(t, err, domain.ErrIO)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := elf.NewExtractor().Needed(dir)
		require.ErrorIs(t, err, domain.ErrIO)
	})
}

func TestExtractor_Needed_TooSmall(t *testing.T) {
	for _, size := range []int{0, 10, 63} {
		path := filepath.Join(t.TempDir(), "tiny.so")
		require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))

		_, err := elf.NewExtractor().Needed(path)

		require.ErrorIs(t, err, domain.ErrFormat, "size %d", size)
	}
}

func TestExtractor_Needed_Truncated(t *testing.T) {
	img := elftest.Build([]string{"liba.so"}, elftest.Options{})
	img.Data = img.Data[:img.SectionHeaderOffset+32]

	_, err := elf.NewExtractor().Needed(writeImage(t, img))

	require.ErrorIs(t, err, domain.ErrFormat)
}

func TestExtractor_Needed_WideDynamicEntries(t *testing.T) {
	img := elftest.Build([]string{"liba.so", "libb.so"}, elftest.Options{})
	// Entries stay 16 bytes apart; a 32-byte stride visits every other one.
	img.SetSectionField(elftest.SectionDynamic, 56, 32)

	names, err := elf.NewExtractor().Needed(writeImage(t, img))

	require.NoError(t, err)
	assert.Equal(t, []string{"libb.so"}, names)
}
