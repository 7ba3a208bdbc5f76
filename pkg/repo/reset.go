package repo

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
)

// Reset points HEAD at commit h, moving the current branch along when HEAD
// is symbolic. The working directory is not touched.
func (r *Repo) Reset(h object.Hash) error {
	if _, err := r.history.Commit(h); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := r.Refs.UpdateWithReason(refs.HEAD, refs.Direct(h), true, "reset: moving to "+string(h)); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}
