package object

import "fmt"

// FlattenTree expands a tree recursively into a map from slash-joined
// relative path to blob hash.
func FlattenTree(r Reader, h Hash) (map[string]Hash, error) {
	out := make(map[string]Hash)
	if h == "" {
		return out, nil
	}
	if err := flattenInto(r, h, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

// FlattenTree expands a stored tree; see the package-level FlattenTree.
func (s *Store) FlattenTree(h Hash) (map[string]Hash, error) {
	return FlattenTree(s, h)
}

func flattenInto(r Reader, h Hash, prefix string, out map[string]Hash) error {
	tr, err := ReadTree(r, h)
	if err != nil {
		return fmt.Errorf("flatten tree: %w", err)
	}
	for _, e := range tr.Entries {
		if err := ValidateEntryName(e.Name); err != nil {
			return fmt.Errorf("flatten tree %s: %w", h, err)
		}
		p := prefix + e.Name
		switch e.Kind {
		case TypeBlob:
			out[p] = e.Hash
		case TypeTree:
			if err := flattenInto(r, e.Hash, p+"/", out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("flatten tree %s: %w %q", h, ErrUnknownEntryKind, e.Kind)
		}
	}
	return nil
}
