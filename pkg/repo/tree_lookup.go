package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
)

// treeEntryAtPath walks relPath down from treeHash one component at a
// time. The returned entry may be a blob or a subtree.
func (r *Repo) treeEntryAtPath(treeHash object.Hash, relPath string) (object.TreeEntry, bool, error) {
	parts := strings.Split(strings.Trim(relPath, "/"), "/")
	current := treeHash

	for i, part := range parts {
		treeObj, err := r.Objects.ReadTree(current)
		if err != nil {
			return object.TreeEntry{}, false, fmt.Errorf("read tree %s: %w", current, err)
		}

		var (
			entry object.TreeEntry
			found bool
		)
		for _, te := range treeObj.Entries {
			if te.Name == part {
				entry = te
				found = true
				break
			}
		}
		if !found {
			return object.TreeEntry{}, false, nil
		}

		if i == len(parts)-1 {
			return entry, true, nil
		}
		if entry.Kind != object.TypeTree {
			return object.TreeEntry{}, false, nil
		}
		current = entry.Hash
	}

	return object.TreeEntry{}, false, nil
}
