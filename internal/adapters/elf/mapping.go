package elf

import (
	"math"
	"os"

	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/zerr"
)

// openForMapping opens path and validates that it is a regular file large
// enough to hold an ELF header. The caller closes the returned file.
func openForMapping(path string) (*os.File, int, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from the phase resolver
	if err != nil {
		return nil, 0, domain.Classify(domain.ErrIO, zerr.With(zerr.Wrap(err, "failed to open shared object"), "path", path))
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, domain.Classify(domain.ErrIO, zerr.With(zerr.Wrap(err, "failed to stat shared object"), "path", path))
	}

	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, 0, domain.Classify(domain.ErrIO, zerr.With(zerr.New("not a regular file"), "path", path))
	}

	size := info.Size()
	if size < ehdrSize {
		_ = f.Close()
		err := zerr.With(zerr.New("file too small for an ELF header"), "size", size)
		return nil, 0, domain.Classify(domain.ErrFormat, zerr.With(err, "path", path))
	}
	if size > math.MaxInt {
		_ = f.Close()
		return nil, 0, domain.Classify(domain.ErrIO, zerr.With(zerr.New("file too large to map"), "path", path))
	}

	return f, int(size), nil
}
