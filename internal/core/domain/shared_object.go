package domain

import "path/filepath"

// SharedObject identifies one binary file by its absolute path.
type SharedObject struct {
	Path InternedString
}

// NewSharedObject creates a SharedObject for the given path.
func NewSharedObject(path string) SharedObject {
	return SharedObject{Path: NewInternedString(path)}
}

// String returns the path of the shared object.
func (o SharedObject) String() string {
	return o.Path.String()
}

// Name returns the file name of the shared object.
func (o SharedObject) Name() string {
	return filepath.Base(o.Path.String())
}

// Dependency is a node of a dependency tree: a resolved shared object, the
// phase it was found in and its own resolved requirements.
type Dependency struct {
	Object       SharedObject
	Phase        Phase
	Dependencies []Dependency
}

// UnresolvedName records a dependency name that was not found on disk.
type UnresolvedName struct {
	Name      string
	Requester SharedObject
	Phase     Phase
}

// Tree is the resolved dependency tree of one shared object.
type Tree struct {
	Root         SharedObject
	Phase        Phase
	Dependencies []Dependency
	// Unresolved lists names that were not found in any searched phase.
	Unresolved []UnresolvedName
	// Provided lists names that were not found on disk but are supplied by the platform.
	Provided []string
}

// Complete reports whether every declared dependency was resolved or is provided by the platform.
func (t *Tree) Complete() bool {
	return len(t.Unresolved) == 0
}

// LoadFailure reports a top-level shared object that could not be fully loaded.
type LoadFailure struct {
	Object SharedObject
	Err    error
}

// FailedObjects returns the objects of failures, in order.
func FailedObjects(failures []LoadFailure) []SharedObject {
	objects := make([]SharedObject, len(failures))
	for i, f := range failures {
		objects[i] = f.Object
	}
	return objects
}
