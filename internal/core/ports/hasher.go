package ports

// Hasher fingerprints file contents.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// ComputeFileHash computes the hash of the file's content.
	ComputeFileHash(path string) (uint64, error)
}
