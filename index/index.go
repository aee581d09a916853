// Package index implements the two-tier project/dependencies definition
// store and the reference table that feature handlers (go-to-definition,
// hover, completion, find-references) consume.
package index

import (
	"strings"
	"sync"

	"github.com/roblourens/php-language-server/definition"
	"github.com/roblourens/php-language-server/fqn"
)

// ReadableIndex is the read side of the index, the interface the resolver
// and type inference depend on. Consumers that only need to look symbols
// up — never mutate them — should depend on this rather than
// *ProjectIndex, matching the teacher's registry-lookup-by-interface
// convention.
type ReadableIndex interface {
	// GetDefinition looks up fqn in the project map, then the
	// dependencies map. If still absent, globalFallback is true, and
	// fqn contains a namespace separator, it retries with fqn's last
	// path segment (see spec §4.2) before giving up. Global fallback
	// only makes sense for function-call and constant-fetch FQNs; the
	// caller decides whether to request it.
	GetDefinition(f fqn.FQN, globalFallback bool) (definition.Definition, bool)

	// References returns every recorded location for fqn, or nil if
	// none are recorded.
	References(f fqn.FQN) []definition.Location
}

// ProjectIndex is the concrete, mutable ReadableIndex: a project map, a
// dependencies map, and a references table. The two definition maps share
// one read/write lock and the references table has its own, so reference
// writes never block definition lookups and vice versa.
type ProjectIndex struct {
	mu           sync.RWMutex
	project      map[fqn.FQN]definition.Definition
	dependencies map[fqn.FQN]definition.Definition

	// uriToFqns tracks, per document URI, which FQNs that document's
	// last indexing pass wrote, so a re-index can remove exactly those
	// entries before inserting the new pass's output.
	uriToFqns map[string][]fqn.FQN

	refMu         sync.RWMutex
	references    map[fqn.FQN][]definition.Location
	uriToRefFqns  map[string][]fqn.FQN
}

// NewProjectIndex returns an empty index.
func NewProjectIndex() *ProjectIndex {
	return &ProjectIndex{
		project:      make(map[fqn.FQN]definition.Definition),
		dependencies: make(map[fqn.FQN]definition.Definition),
		uriToFqns:    make(map[string][]fqn.FQN),
		references:   make(map[fqn.FQN][]definition.Location),
		uriToRefFqns: make(map[string][]fqn.FQN),
	}
}

// GetDefinition implements ReadableIndex.
func (idx *ProjectIndex) GetDefinition(f fqn.FQN, globalFallback bool) (definition.Definition, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.lookupLocked(f, globalFallback)
}

func (idx *ProjectIndex) lookupLocked(f fqn.FQN, globalFallback bool) (definition.Definition, bool) {
	if d, ok := idx.project[f]; ok {
		return d, true
	}
	if d, ok := idx.dependencies[f]; ok {
		return d, true
	}
	if globalFallback && isFallbackEligible(f) && f.HasNamespaceSeparator() {
		return idx.lookupLocked(f.LastSegment(), false)
	}
	return definition.Definition{}, false
}

// isFallbackEligible reports whether f is a function-call FQN (trailing
// "()") or a bare constant-fetch FQN (no member separator at all), the
// only two shapes global fallback applies to.
func isFallbackEligible(f fqn.FQN) bool {
	s := string(f)
	if strings.Contains(s, "::") || strings.Contains(s, "->") {
		return false
	}
	return true
}

// SetDefinition records def under fqn in the project map (dependency
// definitions are written via SetDependencyDefinition) and remembers that
// the owning URI (from def.SymbolInfo.Location, if present) produced this
// entry, so a later RemoveDefinitionsForURI can undo it precisely.
func (idx *ProjectIndex) SetDefinition(f fqn.FQN, def definition.Definition) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.project[f] = def
	if loc := def.SymbolInfo.Location; loc != nil {
		idx.uriToFqns[loc.URI] = append(idx.uriToFqns[loc.URI], f)
	}
}

// SetDependencyDefinition records def in the dependencies map, which
// project lookups consult only after the project map misses.
func (idx *ProjectIndex) SetDependencyDefinition(f fqn.FQN, def definition.Definition) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.dependencies[f] = def
}

// RemoveDefinitionsForURI deletes every project-map entry that a prior
// indexing pass over uri recorded. Dependency definitions are never
// removed this way: dependencies are indexed once and are not subject to
// the same-document re-indexing this method supports.
func (idx *ProjectIndex) RemoveDefinitionsForURI(uri string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, f := range idx.uriToFqns[uri] {
		delete(idx.project, f)
	}
	delete(idx.uriToFqns, uri)
}

// AddReference records that fqn is referenced at loc.
func (idx *ProjectIndex) AddReference(f fqn.FQN, loc definition.Location) {
	idx.refMu.Lock()
	defer idx.refMu.Unlock()
	idx.references[f] = append(idx.references[f], loc)
	idx.uriToRefFqns[loc.URI] = append(idx.uriToRefFqns[loc.URI], f)
}

// References implements ReadableIndex.
func (idx *ProjectIndex) References(f fqn.FQN) []definition.Location {
	idx.refMu.RLock()
	defer idx.refMu.RUnlock()
	locs := idx.references[f]
	out := make([]definition.Location, len(locs))
	copy(out, locs)
	return out
}

// RemoveReferencesForURI deletes every reference location belonging to
// uri from every FQN's reference list.
func (idx *ProjectIndex) RemoveReferencesForURI(uri string) {
	idx.refMu.Lock()
	defer idx.refMu.Unlock()
	for _, f := range idx.uriToRefFqns[uri] {
		locs := idx.references[f]
		kept := locs[:0]
		for _, loc := range locs {
			if loc.URI != uri {
				kept = append(kept, loc)
			}
		}
		if len(kept) == 0 {
			delete(idx.references, f)
		} else {
			idx.references[f] = kept
		}
	}
	delete(idx.uriToRefFqns, uri)
}

var _ ReadableIndex = (*ProjectIndex)(nil)
