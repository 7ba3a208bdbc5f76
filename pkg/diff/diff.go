// Package diff compares flattened trees and renders unified diffs.
package diff

import (
	"sort"

	"github.com/odvcencio/twig/pkg/object"
)

// Entry is one path of a multi-tree comparison. Hashes has one slot per
// input tree; the slot is empty when the tree lacks the path.
type Entry struct {
	Path   string
	Hashes []object.Hash
}

// Compare aligns any number of flattened trees by path. Every path present
// in at least one tree appears exactly once, in lexical order.
func Compare(trees ...map[string]object.Hash) []Entry {
	paths := make(map[string]struct{})
	for _, tr := range trees {
		for p := range tr {
			paths[p] = struct{}{}
		}
	}

	entries := make([]Entry, 0, len(paths))
	for p := range paths {
		hashes := make([]object.Hash, len(trees))
		for i, tr := range trees {
			hashes[i] = tr[p]
		}
		entries = append(entries, Entry{Path: p, Hashes: hashes})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}

// ChangeKind classifies a path that differs between two trees.
type ChangeKind int

const (
	Added    ChangeKind = iota // path exists only in the newer tree
	Deleted                    // path exists only in the older tree
	Modified                   // path exists in both with different content
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	}
	return "unknown"
}

// Change is one changed path.
type Change struct {
	Path    string
	Kind    ChangeKind
	OldHash object.Hash
	NewHash object.Hash
}

// ChangedFiles lists every path whose hash differs between from and to.
func ChangedFiles(from, to map[string]object.Hash) []Change {
	var changes []Change
	for _, e := range Compare(from, to) {
		oldHash, newHash := e.Hashes[0], e.Hashes[1]
		if oldHash == newHash {
			continue
		}
		c := Change{Path: e.Path, OldHash: oldHash, NewHash: newHash, Kind: Modified}
		switch {
		case oldHash == "":
			c.Kind = Added
		case newHash == "":
			c.Kind = Deleted
		}
		changes = append(changes, c)
	}
	return changes
}
