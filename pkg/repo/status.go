package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/twig/pkg/diff"
	"github.com/odvcencio/twig/pkg/merge"
	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
)

// Status summarizes the working directory against HEAD.
type Status struct {
	Branch    string      // "" when detached
	Head      object.Hash // "" on an unborn branch
	MergeHead object.Hash // set while a merge awaits its commit
	Changes   []diff.Change
	Conflicts []string // changed paths that still hold conflict markers
}

// Status compares the HEAD tree with the working directory.
func (r *Repo) Status() (*Status, error) {
	branch, err := r.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	mh, err := r.Refs.Resolve(refs.MergeHead, true)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	headTree, err := r.CommitTree(head)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	work, err := r.WorkingTree()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	st := &Status{
		Branch:    branch,
		Head:      head,
		MergeHead: mh.Value.Hash,
		Changes:   diff.ChangedFiles(headTree, work),
	}
	if st.MergeHead != "" {
		for _, c := range st.Changes {
			if c.Kind == diff.Deleted {
				continue
			}
			data, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(c.Path)))
			if err != nil {
				return nil, fmt.Errorf("status: %w", err)
			}
			if merge.HasConflictMarkers(data) {
				st.Conflicts = append(st.Conflicts, c.Path)
			}
		}
	}
	return st, nil
}

// DiffWorking renders a unified diff from commit h (HEAD when empty) to the
// working directory.
func (r *Repo) DiffWorking(h object.Hash) ([]byte, error) {
	if h == "" {
		head, err := r.Head()
		if err != nil {
			return nil, err
		}
		h = head
	}
	from, err := r.CommitTree(h)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	to, err := r.WorkingTree()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	return diff.DiffTrees(r.Objects, from, to)
}

// DiffCommit renders the changes commit h introduced over its first parent,
// or over the empty tree for a root commit.
func (r *Repo) DiffCommit(h object.Hash) ([]byte, error) {
	c, err := r.history.Commit(h)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", h, err)
	}
	var parent object.Hash
	if len(c.Parents) > 0 {
		parent = c.Parents[0]
	}
	from, err := r.CommitTree(parent)
	if err != nil {
		return nil, fmt.Errorf("diff %s: parent: %w", h, err)
	}
	to, err := r.Objects.FlattenTree(c.TreeHash)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", h, err)
	}
	return diff.DiffTrees(r.Objects, from, to)
}
