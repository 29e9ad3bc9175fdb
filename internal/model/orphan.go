package model

import "iter"

// OrphanGroups maps a base identifier to the on-disk files that share it and
// have no database record. Groups keep the order in which their identifier
// was first seen; paths keep insertion order within a group.
type OrphanGroups struct {
	order []string
	paths map[string][]string
	files int
}

// NewOrphanGroups returns an empty OrphanGroups.
func NewOrphanGroups() *OrphanGroups {
	return &OrphanGroups{
		order: make([]string, 0),
		paths: make(map[string][]string),
	}
}

// Add appends path to the group of baseID, creating the group on first use.
func (g *OrphanGroups) Add(baseID, path string) {
	if _, ok := g.paths[baseID]; !ok {
		g.order = append(g.order, baseID)
	}
	g.paths[baseID] = append(g.paths[baseID], path)
	g.files++
}

// Paths returns the paths grouped under baseID, or nil if there is no group.
func (g *OrphanGroups) Paths(baseID string) []string {
	return g.paths[baseID]
}

// Has reports whether a group exists for baseID.
func (g *OrphanGroups) Has(baseID string) bool {
	_, ok := g.paths[baseID]
	return ok
}

// Len returns the number of groups.
func (g *OrphanGroups) Len() int {
	return len(g.order)
}

// FileCount returns the total number of paths across all groups.
func (g *OrphanGroups) FileCount() int {
	return g.files
}

// BaseIDs returns the group keys in insertion order.
func (g *OrphanGroups) BaseIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// All iterates groups in insertion order.
func (g *OrphanGroups) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, id := range g.order {
			if !yield(id, g.paths[id]) {
				return
			}
		}
	}
}
