package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
)

// CreateTag points refs/tags/<name> at target. An existing tag is only
// replaced when force is set.
func (r *Repo) CreateTag(name string, target object.Hash, force bool) error {
	if err := validateShortName("tag", name); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	if target == "" {
		return fmt.Errorf("create tag %q: %w", name, refs.ErrEmptyTarget)
	}

	refName := refs.TagPrefix + name
	if force {
		err := r.Refs.UpdateWithReason(refName, refs.Direct(target), false, "tag: "+name)
		if err != nil {
			return fmt.Errorf("create tag: %w", err)
		}
		return nil
	}
	err := r.Refs.UpdateCAS(refName, refs.Direct(target), false, "", "tag: "+name)
	if err != nil {
		if errors.Is(err, refs.ErrCASMismatch) {
			return fmt.Errorf("create tag: tag %q already exists", name)
		}
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// DeleteTag removes refs/tags/<name>.
func (r *Repo) DeleteTag(name string) error {
	if err := validateShortName("tag", name); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if err := r.Refs.Delete(refs.TagPrefix+name, false); err != nil {
		if errors.Is(err, refs.ErrAmbiguousOrMissingRef) {
			return fmt.Errorf("delete tag: tag %q does not exist", name)
		}
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// Tag is a tag name and the object it points at.
type Tag struct {
	Name string
	Hash object.Hash
}

// ListTags returns every tag sorted by name.
func (r *Repo) ListTags() ([]Tag, error) {
	tags, err := r.Refs.List(refs.TagPrefix, true)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, Tag{Name: strings.TrimPrefix(t.Name, refs.TagPrefix), Hash: t.Value.Hash})
	}
	return out, nil
}
