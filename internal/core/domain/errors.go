package domain

import "go.trai.ch/zerr"

var (
	// ErrIO is returned when a shared object cannot be opened, stat'd or mapped.
	ErrIO = zerr.New("shared object i/o failure")

	// ErrFormat is returned when a shared object fails ELF header or offset validation.
	ErrFormat = zerr.New("malformed shared object")

	// ErrUnresolvedDependency is returned when a declared dependency is not found in any searched phase.
	ErrUnresolvedDependency = zerr.New("unresolved dependency")

	// ErrCyclicDependency is returned when a shared object is re-entered on its own resolution path.
	ErrCyclicDependency = zerr.New("cyclic dependency")

	// ErrOpenFailed is returned when the opener rejects a shared object.
	ErrOpenFailed = zerr.New("failed to open shared object")

	// ErrLoadFailed is returned when at least one top-level shared object of a session failed to load.
	ErrLoadFailed = zerr.New("one or more shared objects failed to load")

	// ErrUnknownPhase is returned when a phase name does not match any load phase.
	ErrUnknownPhase = zerr.New("unknown load phase")
)

// kindError tags a detailed error with one of the error kinds above.
type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.err.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.err, e.kind}
}

// Classify tags err with kind so that callers can match it with errors.Is,
// while errors.As still reaches the zerr metadata carried by err.
// A nil err yields nil.
func Classify(kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}
