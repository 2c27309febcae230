package ports

// Extractor reads the dependency names a shared object declares.
//
//go:generate go run go.uber.org/mock/mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type Extractor interface {
	// Needed returns the DT_NEEDED names of the shared object at path, in file order.
	Needed(path string) ([]string, error)
}
