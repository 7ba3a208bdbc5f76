package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
)

// CreateBranch points a new refs/heads/<name> at target without checking
// it out. Returns an error if the branch already exists.
func (r *Repo) CreateBranch(name string, target object.Hash) error {
	if err := validateShortName("branch", name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	if target == "" {
		return fmt.Errorf("create branch %q: %w", name, refs.ErrEmptyTarget)
	}
	err := r.Refs.UpdateCAS(refs.BranchPrefix+name, refs.Direct(target), false, "", "branch: created from "+string(target))
	if err != nil {
		if errors.Is(err, refs.ErrCASMismatch) {
			return fmt.Errorf("create branch: branch %q already exists", name)
		}
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	return nil
}

// DeleteBranch removes refs/heads/<name>. The current branch cannot be
// deleted.
func (r *Repo) DeleteBranch(name string) error {
	current, err := r.CurrentBranch()
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if current == name {
		return fmt.Errorf("delete branch: cannot delete current branch %q", name)
	}
	if err := r.Refs.Delete(refs.BranchPrefix+name, false); err != nil {
		if errors.Is(err, refs.ErrAmbiguousOrMissingRef) {
			return fmt.Errorf("delete branch: branch %q does not exist", name)
		}
		return fmt.Errorf("delete branch %q: %w", name, err)
	}
	return nil
}

// Branch is a branch name and the commit it points at.
type Branch struct {
	Name string
	Hash object.Hash
}

// ListBranches returns every branch sorted by name.
func (r *Repo) ListBranches() ([]Branch, error) {
	heads, err := r.Refs.List(refs.BranchPrefix, true)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	out := make([]Branch, 0, len(heads))
	for _, h := range heads {
		out = append(out, Branch{Name: strings.TrimPrefix(h.Name, refs.BranchPrefix), Hash: h.Value.Hash})
	}
	return out, nil
}

// CurrentBranch returns the branch HEAD points at, or "" when HEAD is
// detached.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.Refs.Resolve(refs.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	if head.Value.Kind == refs.KindSymbolic && strings.HasPrefix(head.Value.Target, refs.BranchPrefix) {
		return strings.TrimPrefix(head.Value.Target, refs.BranchPrefix), nil
	}
	return "", nil
}

func validateShortName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name is required", kind)
	}
	if err := refs.ValidateName(name); err != nil {
		return fmt.Errorf("invalid %s name %q", kind, name)
	}
	return nil
}
