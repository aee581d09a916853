package cmd

import (
	"github.com/roblourens/php-language-server/resolve"
	"github.com/roblourens/php-language-server/resolvecache"
)

// newCachedResolver wraps rc with a resolution cache sized for one
// command invocation, so a command that resolves or infers the type of
// overlapping nodes against the same document revision only walks the
// AST once per node.
func newCachedResolver(rc *resolve.Context) *resolvecache.CachedResolver {
	return resolvecache.NewCachedResolver(rc, resolvecache.DefaultCapacity)
}
