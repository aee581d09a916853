// Package resolvecache memoizes reference-to-FQN and type-inference
// results so repeated hover/completion requests over an unchanged
// document don't re-walk the AST. Entries are keyed by document revision,
// so a newer indexing pass invalidates every older entry simply by
// advancing the revision counter — there is no explicit sweep.
package resolvecache

import (
	"github.com/hashicorp/golang-lru/v2"

	"github.com/roblourens/php-language-server/fqn"
	"github.com/roblourens/php-language-server/symtype"
)

// DefaultCapacity is the entry count used by New when callers don't need
// a different bound.
const DefaultCapacity = 4096

// kind distinguishes the two result shapes sharing one cache.
type kind int

const (
	kindReference kind = iota
	kindType
)

type key struct {
	revision uint64
	uri      string
	nodeID   uint64
	kind     kind
}

type entry struct {
	fqnResult  fqn.FQN
	fqnOK      bool
	typeResult symtype.Type
}

// Cache is a bounded LRU in front of the resolver and type inference.
type Cache struct {
	lru *lru.Cache[key, entry]
}

// New returns a Cache holding at most capacity entries, evicting the
// least-recently-used entry once full.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c, err := lru.New[key, entry](capacity)
	if err != nil {
		// lru.New only errors on a non-positive size, which the guard
		// above already rules out.
		panic(err)
	}
	return &Cache{lru: c}
}

// GetReference returns a cached referenceToFqn result for the node, if
// present at this revision.
func (c *Cache) GetReference(revision uint64, uri string, nodeID uint64) (fqn.FQN, bool, bool) {
	e, ok := c.lru.Get(key{revision: revision, uri: uri, nodeID: nodeID, kind: kindReference})
	if !ok {
		return "", false, false
	}
	return e.fqnResult, e.fqnOK, true
}

// PutReference records a referenceToFqn result for the node at revision.
func (c *Cache) PutReference(revision uint64, uri string, nodeID uint64, result fqn.FQN, ok bool) {
	c.lru.Add(key{revision: revision, uri: uri, nodeID: nodeID, kind: kindReference}, entry{fqnResult: result, fqnOK: ok})
}

// GetType returns a cached typeFromExpression result for the node, if
// present at this revision.
func (c *Cache) GetType(revision uint64, uri string, nodeID uint64) (symtype.Type, bool) {
	e, ok := c.lru.Get(key{revision: revision, uri: uri, nodeID: nodeID, kind: kindType})
	if !ok {
		return symtype.Type{}, false
	}
	return e.typeResult, true
}

// PutType records a typeFromExpression result for the node at revision.
func (c *Cache) PutType(revision uint64, uri string, nodeID uint64, result symtype.Type) {
	c.lru.Add(key{revision: revision, uri: uri, nodeID: nodeID, kind: kindType}, entry{typeResult: result})
}

// Len reports the current number of cached entries, for tests and debug
// logging.
func (c *Cache) Len() int {
	return c.lru.Len()
}
