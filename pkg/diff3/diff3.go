// Package diff3 implements line-based two-way diffing and three-way merging
// of text buffers.
package diff3

import (
	"bytes"
	"strings"
)

// Labels name the two sides in conflict markers.
type Labels struct {
	Ours   string
	Theirs string
}

// DefaultLabels mark the current branch and the incoming merge head.
var DefaultLabels = Labels{Ours: "HEAD", Theirs: "MERGE_HEAD"}

// Result holds the outcome of a three-way merge.
type Result struct {
	Merged    []byte // merged content, with conflict markers where the sides disagree
	Conflicts int    // number of conflict regions in Merged
}

// HasConflicts reports whether any region could not be merged cleanly.
func (r Result) HasConflicts() bool { return r.Conflicts > 0 }

// Merge merges ours and theirs against their common base using
// DefaultLabels. Conflicting edits never fail; they are written into the
// output between markers.
func Merge(base, ours, theirs []byte) Result {
	return MergeWithLabels(base, ours, theirs, DefaultLabels)
}

// MergeWithLabels is Merge with caller-chosen marker labels.
//
// Both sides are aligned to base with MyersDiff. Base lines kept by both
// sides at the current output position are emitted as-is. Anything else is
// gathered into a chunk that runs up to the next base line both sides kept;
// a chunk changed on one side only takes that side, identical changes are
// taken once, and differing changes become a conflict.
func MergeWithLabels(base, ours, theirs []byte, labels Labels) Result {
	b := splitLines(base)
	o := splitLines(ours)
	t := splitLines(theirs)

	mo := matches(b, o)
	mt := matches(b, t)

	var (
		out       bytes.Buffer
		conflicts int
		i, oi, ti int
	)
	for i < len(b) || oi < len(o) || ti < len(t) {
		if i < len(b) && mo[i] == oi && mt[i] == ti {
			writeLines(&out, b[i:i+1])
			i, oi, ti = i+1, oi+1, ti+1
			continue
		}

		j := i
		for j < len(b) && (mo[j] < 0 || mt[j] < 0) {
			j++
		}
		oe, te := len(o), len(t)
		if j < len(b) {
			oe, te = mo[j], mt[j]
		}

		baseChunk, oursChunk, theirsChunk := b[i:j], o[oi:oe], t[ti:te]
		switch {
		case equalLines(baseChunk, oursChunk):
			writeLines(&out, theirsChunk)
		case equalLines(baseChunk, theirsChunk), equalLines(oursChunk, theirsChunk):
			writeLines(&out, oursChunk)
		default:
			conflicts++
			out.WriteString("<<<<<<< " + labels.Ours + "\n")
			writeLines(&out, oursChunk)
			out.WriteString("=======\n")
			writeLines(&out, theirsChunk)
			out.WriteString(">>>>>>> " + labels.Theirs + "\n")
		}
		i, oi, ti = j, oe, te
	}

	return Result{Merged: out.Bytes(), Conflicts: conflicts}
}

// splitLines splits s into lines. A trailing newline does not produce an
// extra empty element.
func splitLines(s []byte) []string {
	if len(s) == 0 {
		return nil
	}
	lines := strings.Split(string(s), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writeLines(buf *bytes.Buffer, lines []string) {
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
