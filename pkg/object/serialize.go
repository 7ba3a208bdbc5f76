package object

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj. Entries are sorted by Name so identical
// directory contents always hash to the same tree. Each entry is one line:
//
//	<kind> <hash> <name>
func MarshalTree(tr *TreeObj) ([]byte, error) {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for i, e := range sorted {
		if e.Kind != TypeBlob && e.Kind != TypeTree {
			return nil, fmt.Errorf("marshal tree: entry %q: %w %q", e.Name, ErrUnknownEntryKind, e.Kind)
		}
		if err := ValidateEntryName(e.Name); err != nil {
			return nil, fmt.Errorf("marshal tree: %w", err)
		}
		if i > 0 && sorted[i-1].Name == e.Name {
			return nil, fmt.Errorf("marshal tree: %w: duplicate entry %q", ErrMalformedTree, e.Name)
		}
		fmt.Fprintf(&buf, "%s %s %s\n", e.Kind, e.Hash, e.Name)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a TreeObj from its serialized form.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	if len(data) == 0 {
		return tr, nil
	}
	if data[len(data)-1] != '\n' {
		return nil, fmt.Errorf("unmarshal tree: %w: missing trailing newline", ErrMalformedTree)
	}
	for _, line := range strings.Split(string(data[:len(data)-1]), "\n") {
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 || parts[2] == "" {
			return nil, fmt.Errorf("unmarshal tree: %w: entry %q", ErrMalformedTree, line)
		}
		kind := ObjectType(parts[0])
		if kind != TypeBlob && kind != TypeTree {
			return nil, fmt.Errorf("unmarshal tree: %w %q", ErrUnknownEntryKind, parts[0])
		}
		if !IsFullHash(parts[1]) {
			return nil, fmt.Errorf("unmarshal tree: %w: bad hash %q", ErrMalformedTree, parts[1])
		}
		tr.Entries = append(tr.Entries, TreeEntry{
			Kind: kind,
			Hash: Hash(parts[1]),
			Name: parts[2],
		})
	}
	return tr, nil
}

// ValidateEntryName rejects names that could escape or alias the directory
// they belong to.
func ValidateEntryName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: invalid entry name %q", ErrMalformedTree, name)
	case strings.ContainsAny(name, "/\\\n\x00"):
		return fmt.Errorf("%w: invalid entry name %q", ErrMalformedTree, name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj:
//
//	tree H
//	parent H     (zero or more, order preserved)
//
//	message
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a CommitObj from its serialized form. Everything
// after the first blank line is the message, verbatim.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: %w: missing header/message separator", ErrMalformedCommit)
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &CommitObj{Message: message}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: %w: malformed header line %q", ErrMalformedCommit, line)
		}
		switch key {
		case "tree":
			if c.TreeHash != "" {
				return nil, fmt.Errorf("unmarshal commit: %w: duplicate tree header", ErrMalformedCommit)
			}
			c.TreeHash = Hash(val)
		case "parent":
			c.Parents = append(c.Parents, Hash(val))
		default:
			return nil, fmt.Errorf("unmarshal commit: %w: unknown header key %q", ErrMalformedCommit, key)
		}
	}
	if c.TreeHash == "" {
		return nil, fmt.Errorf("unmarshal commit: %w: missing tree header", ErrMalformedCommit)
	}
	return c, nil
}
