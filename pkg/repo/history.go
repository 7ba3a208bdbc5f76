package repo

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/odvcencio/twig/pkg/object"
)

const commitCacheSize = 4096

// History walks the commit graph stored behind an object.Reader. The reader
// may be a local store or a remote transport.
type History struct {
	objects object.Reader
	commits *lru.Cache[object.Hash, *object.CommitObj]
	bases   *mergeBaseCache
}

// NewHistory returns a History reading commits from r. Parsed commits and
// computed merge bases are kept in bounded caches; commits are immutable so
// entries never go stale.
func NewHistory(r object.Reader) *History {
	cache, err := lru.New[object.Hash, *object.CommitObj](commitCacheSize)
	if err != nil {
		panic(fmt.Sprintf("commit cache: %v", err))
	}
	return &History{objects: r, commits: cache, bases: newMergeBaseCache()}
}

// Commit reads and parses the commit oid. Returned commits are shared; do
// not modify them.
func (h *History) Commit(oid object.Hash) (*object.CommitObj, error) {
	if c, ok := h.commits.Get(oid); ok {
		return c, nil
	}
	c, err := object.ReadCommit(h.objects, oid)
	if err != nil {
		return nil, err
	}
	h.commits.Add(oid, c)
	return c, nil
}

// Walker is a pull-based ancestry traversal. Each commit is produced at most
// once. A commit's first parent is visited next, ahead of anything already
// queued; its remaining parents go to the back of the queue.
//
//	w := h.Walk(tip)
//	for w.Next() {
//		fmt.Println(w.Hash())
//	}
//	if err := w.Err(); err != nil { ... }
type Walker struct {
	h       *History
	queue   []object.Hash
	visited map[object.Hash]struct{}

	cur    object.Hash
	commit *object.CommitObj
	err    error
}

// Walk starts an ancestry traversal from seeds. Empty seeds are skipped.
func (h *History) Walk(seeds ...object.Hash) *Walker {
	return &Walker{
		h:       h,
		queue:   append([]object.Hash(nil), seeds...),
		visited: make(map[object.Hash]struct{}),
	}
}

// Next advances to the next commit. It returns false when the walk is
// exhausted or a commit could not be read; check Err afterwards.
func (w *Walker) Next() bool {
	for len(w.queue) > 0 && w.err == nil {
		oid := w.queue[0]
		w.queue = w.queue[1:]
		if oid == "" {
			continue
		}
		if _, seen := w.visited[oid]; seen {
			continue
		}
		w.visited[oid] = struct{}{}

		c, err := w.h.Commit(oid)
		if err != nil {
			w.err = fmt.Errorf("walk %s: %w", oid, err)
			w.queue = nil
			return false
		}
		if len(c.Parents) > 0 {
			next := make([]object.Hash, 0, len(w.queue)+len(c.Parents))
			next = append(next, c.Parents[0])
			next = append(next, w.queue...)
			w.queue = append(next, c.Parents[1:]...)
		}
		w.cur, w.commit = oid, c
		return true
	}
	return false
}

// Hash returns the current commit's hash.
func (w *Walker) Hash() object.Hash { return w.cur }

// Commit returns the current commit.
func (w *Walker) Commit() *object.CommitObj { return w.commit }

// Err returns the error that stopped the walk, if any.
func (w *Walker) Err() error { return w.err }

// Ancestors collects the full walk from seeds.
func (h *History) Ancestors(seeds ...object.Hash) ([]object.Hash, error) {
	var out []object.Hash
	w := h.Walk(seeds...)
	for w.Next() {
		out = append(out, w.Hash())
	}
	return out, w.Err()
}

// MergeBase returns the common ancestor of a and b used for three-way
// merges: every ancestor of a is collected, then the ancestors of b are
// walked in Walker order and the first one also reachable from a wins.
// When several lowest common ancestors exist, the one reached first along
// b's first-parent-priority walk is chosen. Returns "" when the histories
// are disjoint.
func (h *History) MergeBase(a, b object.Hash) (object.Hash, error) {
	if base, ok := h.bases.load(a, b); ok {
		return base, nil
	}
	base, err := h.mergeBase(a, b)
	if err != nil {
		return "", err
	}
	h.bases.store(a, b, base)
	return base, nil
}

func (h *History) mergeBase(a, b object.Hash) (object.Hash, error) {
	fromA := make(map[object.Hash]struct{})
	w := h.Walk(a)
	for w.Next() {
		fromA[w.Hash()] = struct{}{}
	}
	if err := w.Err(); err != nil {
		return "", fmt.Errorf("merge base: %w", err)
	}

	w = h.Walk(b)
	for w.Next() {
		if _, ok := fromA[w.Hash()]; ok {
			return w.Hash(), nil
		}
	}
	if err := w.Err(); err != nil {
		return "", fmt.Errorf("merge base: %w", err)
	}
	return "", nil
}

// ReachableObjects returns every commit reachable from seeds together with
// all trees and blobs those commits reference.
func (h *History) ReachableObjects(seeds ...object.Hash) (map[object.Hash]struct{}, error) {
	out := make(map[object.Hash]struct{})
	w := h.Walk(seeds...)
	for w.Next() {
		out[w.Hash()] = struct{}{}
		if err := h.collectTree(w.Commit().TreeHash, out); err != nil {
			return nil, fmt.Errorf("reachable objects: commit %s: %w", w.Hash(), err)
		}
	}
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("reachable objects: %w", err)
	}
	return out, nil
}

func (h *History) collectTree(oid object.Hash, out map[object.Hash]struct{}) error {
	if _, seen := out[oid]; seen {
		return nil
	}
	tr, err := object.ReadTree(h.objects, oid)
	if err != nil {
		return err
	}
	out[oid] = struct{}{}
	for _, e := range tr.Entries {
		switch e.Kind {
		case object.TypeBlob:
			out[e.Hash] = struct{}{}
		case object.TypeTree:
			if err := h.collectTree(e.Hash, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("tree %s: %w %q", oid, object.ErrUnknownEntryKind, e.Kind)
		}
	}
	return nil
}
