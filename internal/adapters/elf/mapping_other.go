//go:build !unix

package elf

import (
	"io"

	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/zerr"
)

// mapFile reads path into memory on platforms without mmap.
func mapFile(path string) ([]byte, func() error, error) {
	f, size, err := openForMapping(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() //nolint:errcheck // Read-only descriptor

	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, domain.Classify(domain.ErrIO, zerr.With(zerr.Wrap(err, "failed to read shared object"), "path", path))
	}

	return data, func() error { return nil }, nil
}
