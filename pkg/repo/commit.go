package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
	"go.uber.org/zap"
)

// Commit snapshots the whole working directory and records it as a new
// commit. HEAD (if set) becomes the first parent and MERGE_HEAD (if set) the
// second; MERGE_HEAD is cleared afterwards. HEAD is advanced through its
// symbolic indirection, so the current branch moves with it. The update is
// compare-and-swap guarded against a concurrent commit.
func (r *Repo) Commit(message string) (object.Hash, error) {
	treeHash, err := r.WriteTree(r.RootDir)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	head, err := r.Refs.Resolve(refs.HEAD, true)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	mergeHead, err := r.Refs.Resolve(refs.MergeHead, true)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	var parents []object.Hash
	if head.Value.Kind == refs.KindDirect && head.Value.IsSet() {
		parents = append(parents, head.Value.Hash)
	}
	if mergeHead.Value.Kind == refs.KindDirect && mergeHead.Value.IsSet() {
		parents = append(parents, mergeHead.Value.Hash)
	}

	h, err := r.Objects.WriteCommit(&object.CommitObj{
		TreeHash: treeHash,
		Parents:  parents,
		Message:  message,
	})
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	reason := "commit"
	switch {
	case len(parents) == 0:
		reason = "commit (initial)"
	case len(parents) > 1:
		reason = "commit (merge)"
	}
	reason += ": " + summary(message)

	if err := r.Refs.UpdateCAS(refs.HEAD, refs.Direct(h), true, head.Value.Hash, reason); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if mergeHead.Value.IsSet() {
		if err := r.Refs.Delete(refs.MergeHead, false); err != nil {
			return "", fmt.Errorf("commit: clear %s: %w", refs.MergeHead, err)
		}
	}

	r.log.Info("committed",
		zap.String("commit", string(h)),
		zap.String("tree", string(treeHash)),
		zap.Int("parents", len(parents)),
	)
	return h, nil
}

// summary returns the first line of a commit message.
func summary(message string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return line
}
