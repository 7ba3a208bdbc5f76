package refs

import (
	"strings"

	"github.com/odvcencio/twig/pkg/object"
)

// Kind tags the three states a ref cell can be in.
type Kind int

const (
	KindUnset    Kind = iota // no backing value
	KindDirect               // holds an object hash
	KindSymbolic             // points at another ref name
)

const symbolicPrefix = "ref:"

// Value is the content of a ref cell, decided once when the cell is read.
type Value struct {
	Kind   Kind
	Hash   object.Hash // set when Kind == KindDirect
	Target string      // set when Kind == KindSymbolic
}

// Direct returns a value pointing at h.
func Direct(h object.Hash) Value {
	return Value{Kind: KindDirect, Hash: h}
}

// Symbolic returns a value pointing at another ref.
func Symbolic(target string) Value {
	return Value{Kind: KindSymbolic, Target: target}
}

// IsSet reports whether v holds anything.
func (v Value) IsSet() bool {
	switch v.Kind {
	case KindDirect:
		return v.Hash != ""
	case KindSymbolic:
		return v.Target != ""
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case KindDirect:
		return string(v.Hash)
	case KindSymbolic:
		return symbolicPrefix + " " + v.Target
	}
	return ""
}

// encode renders v in the on-disk format.
func (v Value) encode() string {
	return v.String() + "\n"
}

// decode parses the on-disk format. Empty content, and content that is
// neither a symbolic ref nor a full hash, is unset.
func decode(data []byte) Value {
	content := strings.TrimSpace(string(data))
	if content == "" {
		return Value{}
	}
	if strings.HasPrefix(content, symbolicPrefix) {
		return Symbolic(strings.TrimSpace(strings.TrimPrefix(content, symbolicPrefix)))
	}
	if !object.IsFullHash(content) {
		return Value{}
	}
	return Direct(object.Hash(strings.ToLower(content)))
}

// Ref pairs a ref name with its value.
type Ref struct {
	Name  string
	Value Value
}
