package model

// ExistsSet holds the base identifiers of database records whose file is
// present on disk. It is built once per run and only read afterwards.
type ExistsSet map[string]struct{}

// NewExistsSet returns an empty ExistsSet.
func NewExistsSet() ExistsSet {
	return make(ExistsSet)
}

// Add inserts a base identifier.
func (s ExistsSet) Add(baseID string) {
	s[baseID] = struct{}{}
}

// Has reports whether baseID is in the set.
func (s ExistsSet) Has(baseID string) bool {
	_, ok := s[baseID]
	return ok
}

// Len returns the number of distinct base identifiers.
func (s ExistsSet) Len() int {
	return len(s)
}
