package repo

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/refs"
	"go.uber.org/zap"
)

// Checkout resolves name, replaces the working directory with that commit's
// tree and moves HEAD. When name is an existing branch HEAD becomes a
// symbolic ref to it; anything else detaches HEAD at the resolved hash.
func (r *Repo) Checkout(name string) error {
	h, err := r.ResolveName(name)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	c, err := r.history.Commit(h)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.Materialize(c.TreeHash, r.RootDir); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	branchRef := refs.BranchPrefix + name
	isBranch := false
	if res, err := r.Refs.Resolve(branchRef, true); err == nil && res.Value.IsSet() {
		isBranch = true
	}

	if isBranch {
		err = r.Refs.Update(refs.HEAD, refs.Symbolic(branchRef), false)
	} else {
		err = r.Refs.UpdateWithReason(refs.HEAD, refs.Direct(h), false, "checkout: moving to "+name)
	}
	if err != nil {
		return fmt.Errorf("checkout: update HEAD: %w", err)
	}

	r.log.Info("checked out", zap.String("name", name), zap.String("commit", string(h)), zap.Bool("detached", !isBranch))
	return nil
}
