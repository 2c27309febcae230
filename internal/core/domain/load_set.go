package domain

import "slices"

// LoadSet records the shared objects that have already been opened or scheduled.
// It is threaded explicitly through successive batch loads so that earlier
// phases suppress re-loading in later ones. It is not safe for concurrent use.
type LoadSet struct {
	paths map[InternedString]struct{}
}

// NewLoadSet creates an empty LoadSet.
func NewLoadSet() *LoadSet {
	return &LoadSet{paths: make(map[InternedString]struct{})}
}

// Contains reports whether obj has been recorded.
func (s *LoadSet) Contains(obj SharedObject) bool {
	_, ok := s.paths[obj.Path]
	return ok
}

// Add records obj. It returns false if obj was already recorded.
func (s *LoadSet) Add(obj SharedObject) bool {
	if s.Contains(obj) {
		return false
	}
	s.paths[obj.Path] = struct{}{}
	return true
}

// Len returns the number of recorded objects.
func (s *LoadSet) Len() int {
	return len(s.paths)
}

// Paths returns the recorded paths in lexical order.
func (s *LoadSet) Paths() []string {
	paths := make([]string, 0, len(s.paths))
	for p := range s.paths {
		paths = append(paths, p.String())
	}
	slices.Sort(paths)
	return paths
}
