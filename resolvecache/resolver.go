package resolvecache

import (
	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/fqn"
	"github.com/roblourens/php-language-server/resolve"
	"github.com/roblourens/php-language-server/symtype"
)

// CachedResolver wraps a resolve.Context with a Cache, so repeated
// resolution / type-inference calls against an unchanged document revision
// hit the LRU instead of re-walking the AST. It is the type that joins
// `resolve` to this package's Cache — `resolve` itself stays
// cache-agnostic, per the module's layering (core resolution logic never
// knows a cache exists above it).
type CachedResolver struct {
	RC    *resolve.Context
	Cache *Cache

	// Revision is the document revision results are cached against. The
	// caller (typically the indexer's Session) advances it; the
	// CachedResolver never mutates it itself.
	Revision uint64
}

// NewCachedResolver returns a CachedResolver over rc with a fresh cache of
// the given capacity (DefaultCapacity when capacity <= 0).
func NewCachedResolver(rc *resolve.Context, capacity int) *CachedResolver {
	return &CachedResolver{RC: rc, Cache: New(capacity)}
}

// ReferenceToFqn is resolve.ReferenceToFqn memoized by (Revision, node's
// URI, node's ID).
func (r *CachedResolver) ReferenceToFqn(node ast.Node) (fqn.FQN, bool) {
	if node == nil {
		return "", false
	}
	if f, ok, hit := r.Cache.GetReference(r.Revision, node.URI(), node.ID()); hit {
		return f, ok
	}
	f, ok := resolve.ReferenceToFqn(r.RC, node)
	r.Cache.PutReference(r.Revision, node.URI(), node.ID(), f, ok)
	return f, ok
}

// TypeFromExpression is resolve.TypeFromExpression memoized the same way.
func (r *CachedResolver) TypeFromExpression(node ast.Node) symtype.Type {
	if node == nil {
		return symtype.NewMixed()
	}
	if t, hit := r.Cache.GetType(r.Revision, node.URI(), node.ID()); hit {
		return t
	}
	t := resolve.TypeFromExpression(r.RC, node)
	r.Cache.PutType(r.Revision, node.URI(), node.ID(), t)
	return t
}
