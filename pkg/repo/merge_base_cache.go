package repo

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/odvcencio/twig/pkg/object"
)

const mergeBaseCacheSize = 256

// mergeBaseKey is ordered: the tie-break between several common ancestors
// follows the second argument's walk, so (a, b) and (b, a) may differ.
type mergeBaseKey struct {
	left  object.Hash
	right object.Hash
}

// mergeBaseCache remembers merge bases by commit pair. A disjoint pair is
// cached as "".
type mergeBaseCache struct {
	entries *lru.Cache[mergeBaseKey, object.Hash]
}

func newMergeBaseCache() *mergeBaseCache {
	entries, err := lru.New[mergeBaseKey, object.Hash](mergeBaseCacheSize)
	if err != nil {
		panic(fmt.Sprintf("merge base cache: %v", err))
	}
	return &mergeBaseCache{entries: entries}
}

func (c *mergeBaseCache) load(a, b object.Hash) (object.Hash, bool) {
	return c.entries.Get(mergeBaseKey{left: a, right: b})
}

func (c *mergeBaseCache) store(a, b, base object.Hash) {
	c.entries.Add(mergeBaseKey{left: a, right: b}, base)
}

func (c *mergeBaseCache) size() int {
	return c.entries.Len()
}
