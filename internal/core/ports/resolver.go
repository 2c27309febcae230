package ports

import "go.trai.ch/modloader/internal/core/domain"

// Resolver locates dependency names across the phase directories.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type Resolver interface {
	// Resolve finds name in the phases from PhaseLibs down to requester and
	// returns the object together with the phase it was found in.
	// It returns domain.ErrUnresolvedDependency when no phase holds the file.
	Resolve(name string, requester domain.Phase) (domain.SharedObject, domain.Phase, error)
}

// Lister enumerates the top-level candidates of a phase.
type Lister interface {
	// List returns the shared objects placed directly in the directory of phase.
	List(phase domain.Phase) ([]domain.SharedObject, error)
}
