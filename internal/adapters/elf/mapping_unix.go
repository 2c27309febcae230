//go:build unix

package elf

import (
	"go.trai.ch/modloader/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

// mapFile maps path read-only. The mapping outlives the descriptor, which is
// closed before mapFile returns; release unmaps it.
func mapFile(path string) ([]byte, func() error, error) {
	f, size, err := openForMapping(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() //nolint:errcheck // Read-only descriptor

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, domain.Classify(domain.ErrIO, zerr.With(zerr.Wrap(err, "failed to map shared object"), "path", path))
	}

	return data, func() error { return unix.Munmap(data) }, nil
}
