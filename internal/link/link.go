// Package link maps free text to knowledge-graph entities.
package link

import (
	"slices"
	"strings"

	"github.com/ppiankov/factlens/internal/factstore"
)

// Linker matches entity display names and aliases inside text
type Linker struct {
	patterns []pattern
}

type pattern struct {
	entityID string
	needle   string // lowercased name or alias
}

// New indexes every name and alias in store
func New(store *factstore.Store) *Linker {
	l := &Linker{}
	for _, e := range store.Entities() {
		for _, name := range e.Names() {
			needle := strings.ToLower(strings.TrimSpace(name))
			if needle == "" {
				continue
			}
			l.patterns = append(l.patterns, pattern{entityID: e.ID, needle: needle})
		}
	}
	return l
}

// Link returns the IDs of every entity whose name or alias occurs in text,
// ignoring case. The result is sorted and never nil.
func (l *Linker) Link(text string) []string {
	ids := []string{}
	if strings.TrimSpace(text) == "" {
		return ids
	}

	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	for _, p := range l.patterns {
		if seen[p.entityID] {
			continue
		}
		if strings.Contains(lower, p.needle) {
			seen[p.entityID] = true
			ids = append(ids, p.entityID)
		}
	}

	slices.Sort(ids)
	return ids
}
