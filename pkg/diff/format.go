package diff

import (
	"bytes"
	"fmt"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/pmezard/go-difflib/difflib"
)

// ContextLines is the number of unchanged lines shown around each hunk.
const ContextLines = 3

// DiffBlobs renders a unified diff of one path. Empty content stands for an
// absent side, so additions and deletions diff against nothing. Identical
// content renders as nothing.
func DiffBlobs(path string, oldData, newData []byte) ([]byte, error) {
	ud := difflib.UnifiedDiff{
		A:        splitLines(oldData),
		B:        splitLines(newData),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  ContextLines,
	}
	var buf bytes.Buffer
	if err := difflib.WriteUnifiedDiff(&buf, ud); err != nil {
		return nil, fmt.Errorf("diff %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

// DiffTrees concatenates DiffBlobs output for every path whose hash differs
// between the flattened trees from and to. Blob content is read from r.
func DiffTrees(r object.Reader, from, to map[string]object.Hash) ([]byte, error) {
	var out bytes.Buffer
	for _, c := range ChangedFiles(from, to) {
		oldData, err := blobData(r, c.OldHash)
		if err != nil {
			return nil, err
		}
		newData, err := blobData(r, c.NewHash)
		if err != nil {
			return nil, err
		}
		d, err := DiffBlobs(c.Path, oldData, newData)
		if err != nil {
			return nil, err
		}
		out.Write(d)
	}
	return out.Bytes(), nil
}

func blobData(r object.Reader, h object.Hash) ([]byte, error) {
	if h == "" {
		return nil, nil
	}
	b, err := object.ReadBlob(r, h)
	if err != nil {
		return nil, err
	}
	return b.Data, nil
}

const noNewlineMarker = "\\ No newline at end of file\n"

// splitLines keeps line terminators, as difflib expects. Empty input yields
// no lines. A final line without a newline carries the no-newline marker,
// so it differs from the same text with a newline and renders the marker
// under itself.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := difflib.SplitLines(string(data))
	if last := lines[len(lines)-1]; last == "\n" {
		return lines[:len(lines)-1]
	}
	lines[len(lines)-1] += noNewlineMarker
	return lines
}
