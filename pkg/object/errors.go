package object

import (
	"errors"
	"fmt"
)

var (
	ErrObjectNotFound   = errors.New("object not found")
	ErrTypeMismatch     = errors.New("object type mismatch")
	ErrMalformedObject  = errors.New("malformed object")
	ErrMalformedTree    = errors.New("malformed tree")
	ErrMalformedCommit  = errors.New("malformed commit")
	ErrUnknownEntryKind = errors.New("unknown tree entry kind")
)

// TypeMismatchError reports that a stored object carries a different type
// tag than the caller expected.
type TypeMismatchError struct {
	Hash Hash
	Got  ObjectType
	Want ObjectType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("object %s: %s: got %q, want %q", e.Hash, ErrTypeMismatch, e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
