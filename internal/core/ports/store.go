package ports

// NeededStore persists extracted dependency names keyed by shared object path.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type NeededStore interface {
	// Get returns the names recorded for path under fingerprint.
	// The boolean is false when nothing matching is recorded.
	Get(path string, fingerprint uint64) ([]string, bool)

	// Put records names for path under fingerprint.
	Put(path string, fingerprint uint64, names []string) error
}
