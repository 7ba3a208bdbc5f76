package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
)

// minPrefixLen is the shortest hash prefix ResolveName accepts.
const minPrefixLen = 4

// ResolveName turns a revision name into a hash. "@" means HEAD. Otherwise
// name is tried as a ref path, then under refs/, refs/tags/ and refs/heads/;
// the first candidate with a value wins. Failing that, a full 40-hex hash is
// accepted literally and a unique stored prefix of at least four hex
// characters is expanded. "<rev>:<path>" names the blob or tree at path in
// the tree of rev; an empty rev means HEAD.
func (r *Repo) ResolveName(name string) (object.Hash, error) {
	name = strings.TrimSpace(name)
	if rev, p, ok := strings.Cut(name, ":"); ok {
		return r.resolvePath(rev, p)
	}
	if name == "@" {
		name = refs.HEAD
	}
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownRevision)
	}

	candidates := []string{name, "refs/" + name, refs.TagPrefix + name, refs.BranchPrefix + name}
	for _, c := range candidates {
		res, err := r.Refs.Resolve(c, true)
		if err != nil {
			if errors.Is(err, refs.ErrAmbiguousOrMissingRef) {
				continue
			}
			return "", fmt.Errorf("resolve %q: %w", name, err)
		}
		if res.Value.Kind == refs.KindDirect && res.Value.IsSet() {
			return res.Value.Hash, nil
		}
	}

	lower := strings.ToLower(name)
	if object.IsFullHash(lower) {
		return object.Hash(lower), nil
	}
	if len(lower) >= minPrefixLen {
		matches, err := r.Objects.MatchPrefix(lower)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", name, err)
		}
		switch len(matches) {
		case 1:
			return matches[0], nil
		case 0:
		default:
			return "", fmt.Errorf("%w: %q is ambiguous (%d objects)", ErrUnknownRevision, name, len(matches))
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRevision, name)
}

// Head returns the hash HEAD resolves to, or "" on an unborn branch.
func (r *Repo) Head() (object.Hash, error) {
	res, err := r.Refs.Resolve(refs.HEAD, true)
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	return res.Value.Hash, nil
}

// CommitTree flattens the tree of commit h. An empty h yields an empty tree.
func (r *Repo) CommitTree(h object.Hash) (map[string]object.Hash, error) {
	if h == "" {
		return map[string]object.Hash{}, nil
	}
	c, err := r.history.Commit(h)
	if err != nil {
		return nil, err
	}
	return r.Objects.FlattenTree(c.TreeHash)
}

// Decorations maps each hash to the refs pointing at it, for log output.
func (r *Repo) Decorations() (map[object.Hash][]string, error) {
	all, err := r.Refs.List("", true)
	if err != nil {
		return nil, err
	}
	out := make(map[object.Hash][]string)
	for _, ref := range all {
		if ref.Value.Kind != refs.KindDirect {
			continue
		}
		out[ref.Value.Hash] = append(out[ref.Value.Hash], ref.Name)
	}
	return out, nil
}

func (r *Repo) resolvePath(rev, p string) (object.Hash, error) {
	if rev == "" {
		rev = refs.HEAD
	}
	h, err := r.ResolveName(rev)
	if err != nil {
		return "", err
	}
	objType, data, err := r.Objects.Read(h)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", rev, err)
	}
	switch objType {
	case object.TypeCommit:
		c, err := object.UnmarshalCommit(data)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", rev, err)
		}
		h = c.TreeHash
	case object.TypeTree:
	default:
		return "", fmt.Errorf("%w: %s is a %s, not a tree-ish", ErrUnknownRevision, rev, objType)
	}

	if strings.Trim(p, "/") == "" {
		return h, nil
	}
	entry, ok, err := r.treeEntryAtPath(h, p)
	if err != nil {
		return "", fmt.Errorf("resolve %s:%s: %w", rev, p, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: path %q does not exist in %s", ErrUnknownRevision, p, rev)
	}
	return entry.Hash, nil
}
