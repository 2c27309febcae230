package ports

// Opener performs the actual dynamic load of a shared object into the running process.
//
//go:generate go run go.uber.org/mock/mockgen -source=opener.go -destination=mocks/mock_opener.go -package=mocks
type Opener interface {
	// Open loads the shared object at path.
	Open(path string) error
	// Close releases every handle obtained by Open.
	Close() error
}
