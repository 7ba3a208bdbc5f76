package repo

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/merge"
	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
	"go.uber.org/zap"
)

// MergeResult describes a merge written to the working directory.
type MergeResult struct {
	Head      object.Hash
	Other     object.Hash
	Base      object.Hash // "" when the histories share no commit
	Files     int
	Conflicts []string // paths whose content carries conflict markers
}

// Merge merges commit other into HEAD. The working directory is replaced
// with the merged tree and MERGE_HEAD is set to other so the next Commit
// records both parents. Nothing is committed. Conflicting content is
// written with markers and listed in the result; it is not an error.
func (r *Repo) Merge(other object.Hash) (*MergeResult, error) {
	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if head == "" {
		return nil, fmt.Errorf("merge: %w", ErrNoCommits)
	}
	return r.MergeCommits(head, other)
}

// MergeCommits merges other into head against their merge base and writes
// the result to the working directory.
func (r *Repo) MergeCommits(head, other object.Hash) (*MergeResult, error) {
	base, err := r.history.MergeBase(head, other)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	baseTree, err := r.CommitTree(base)
	if err != nil {
		return nil, fmt.Errorf("merge: base %s: %w", base, err)
	}
	headTree, err := r.CommitTree(head)
	if err != nil {
		return nil, fmt.Errorf("merge: head %s: %w", head, err)
	}
	otherTree, err := r.CommitTree(other)
	if err != nil {
		return nil, fmt.Errorf("merge: other %s: %w", other, err)
	}

	merged, err := merge.Trees(r.Objects, baseTree, headTree, otherTree)
	if err != nil {
		return nil, err
	}

	files := make(map[string][]byte, len(merged.Files))
	for _, f := range merged.Files {
		files[f.Path] = f.Data
	}
	if err := r.replaceContents(r.RootDir, files); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if err := r.Refs.Update(refs.MergeHead, refs.Direct(other), false); err != nil {
		return nil, fmt.Errorf("merge: set %s: %w", refs.MergeHead, err)
	}

	r.log.Info("merged",
		zap.String("head", string(head)),
		zap.String("other", string(other)),
		zap.String("base", string(base)),
		zap.Int("conflicts", len(merged.Conflicts)),
	)
	return &MergeResult{
		Head:      head,
		Other:     other,
		Base:      base,
		Files:     len(files),
		Conflicts: merged.Conflicts,
	}, nil
}
