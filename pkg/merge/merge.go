// Package merge combines two lines of history against their merge base.
package merge

import (
	"bytes"
	"fmt"

	"github.com/odvcencio/twig/pkg/diff"
	"github.com/odvcencio/twig/pkg/diff3"
	"github.com/odvcencio/twig/pkg/object"
)

// Blobs merges head and other against base. A side that left base
// untouched yields the other side byte for byte. Conflicting lines are
// written between markers; conflicts are never reported as errors.
// Content holding a NUL byte is not merged by line: when both sides
// changed it, head is kept as is and the result counts one conflict.
func Blobs(base, head, other []byte) diff3.Result {
	switch {
	case bytes.Equal(head, other):
		return diff3.Result{Merged: bytes.Clone(head)}
	case bytes.Equal(base, head):
		return diff3.Result{Merged: bytes.Clone(other)}
	case bytes.Equal(base, other):
		return diff3.Result{Merged: bytes.Clone(head)}
	}
	if isBinary(base) || isBinary(head) || isBinary(other) {
		return diff3.Result{Merged: bytes.Clone(head), Conflicts: 1}
	}
	return diff3.Merge(base, head, other)
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}

// File is one path of a tree merge result.
type File struct {
	Path     string
	Data     []byte
	Conflict bool // Data carries conflict markers
}

// TreeResult is the content of the working tree after a merge.
type TreeResult struct {
	Files     []File // sorted by path
	Conflicts []string
}

// Trees merges the flattened head and other trees against base. A path
// changed on one side only takes that side's blob, and is dropped when that
// side removed it. Paths changed on both sides go through Blobs with missing
// sides treated as empty; an empty result for a path that one side removed
// is a deletion.
func Trees(r object.Reader, base, head, other map[string]object.Hash) (*TreeResult, error) {
	res := &TreeResult{}
	for _, e := range diff.Compare(base, head, other) {
		baseHash, headHash, otherHash := e.Hashes[0], e.Hashes[1], e.Hashes[2]

		keep, resolved := headHash, true
		switch {
		case headHash == otherHash, otherHash == baseHash:
		case headHash == baseHash:
			keep = otherHash
		default:
			resolved = false
		}
		if resolved {
			if keep == "" {
				continue
			}
			data, err := blobData(r, keep)
			if err != nil {
				return nil, err
			}
			res.Files = append(res.Files, File{Path: e.Path, Data: data})
			continue
		}

		baseData, err := blobData(r, baseHash)
		if err != nil {
			return nil, err
		}
		headData, err := blobData(r, headHash)
		if err != nil {
			return nil, err
		}
		otherData, err := blobData(r, otherHash)
		if err != nil {
			return nil, err
		}

		merged := Blobs(baseData, headData, otherData)
		if len(merged.Merged) == 0 && (headHash == "" || otherHash == "") {
			continue
		}
		f := File{Path: e.Path, Data: merged.Merged, Conflict: merged.HasConflicts()}
		if f.Conflict {
			res.Conflicts = append(res.Conflicts, e.Path)
		}
		res.Files = append(res.Files, f)
	}
	return res, nil
}

func blobData(r object.Reader, h object.Hash) ([]byte, error) {
	if h == "" {
		return nil, nil
	}
	b, err := object.ReadBlob(r, h)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	return b.Data, nil
}

var (
	markerOurs   = []byte("<<<<<<< ")
	markerSep    = []byte("=======")
	markerTheirs = []byte(">>>>>>> ")
)

// HasConflictMarkers reports whether data contains a complete conflict
// block: an opening marker, a separator, and a closing marker, in order, each
// at the start of a line.
func HasConflictMarkers(data []byte) bool {
	state := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		switch {
		case state == 0 && bytes.HasPrefix(line, markerOurs):
			state = 1
		case state == 1 && bytes.Equal(bytes.TrimRight(line, "\r"), markerSep):
			state = 2
		case state == 2 && bytes.HasPrefix(line, markerTheirs):
			return true
		}
	}
	return false
}
