package diff3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMyersDiffBasic(t *testing.T) {
	ops := MyersDiff([]string{"a", "b", "c"}, []string{"a", "x", "c"})
	want := []Op{
		{Kind: Equal, A: 0, B: 0},
		{Kind: Delete, A: 1, B: -1},
		{Kind: Insert, A: -1, B: 1},
		{Kind: Equal, A: 2, B: 2},
	}
	assert.Equal(t, want, ops)
}

func TestMyersDiffOneSideEmpty(t *testing.T) {
	ops := MyersDiff(nil, []string{"a", "b"})
	require.Len(t, ops, 2)
	for _, op := range ops {
		assert.Equal(t, Insert, op.Kind)
	}

	ops = MyersDiff([]string{"a", "b"}, nil)
	require.Len(t, ops, 2)
	for _, op := range ops {
		assert.Equal(t, Delete, op.Kind)
	}

	assert.Empty(t, MyersDiff(nil, nil))
}

func TestMyersDiffIdentical(t *testing.T) {
	a := []string{"a", "b", "c"}
	for i, op := range MyersDiff(a, a) {
		assert.Equal(t, Op{Kind: Equal, A: i, B: i}, op)
	}
}

func TestMyersDiffIsMinimal(t *testing.T) {
	a := []string{"a", "b", "c", "a", "b", "b", "a"}
	b := []string{"c", "b", "a", "b", "a", "c"}
	edits := 0
	for _, op := range MyersDiff(a, b) {
		if op.Kind != Equal {
			edits++
		}
	}
	assert.Equal(t, 5, edits)
}

func TestMergeDisjointEdits(t *testing.T) {
	res := Merge([]byte("1\n2\n3\n"), []byte("ONE\n2\n3\n"), []byte("1\n2\nTHREE\n"))
	assert.False(t, res.HasConflicts())
	assert.Equal(t, "ONE\n2\nTHREE\n", string(res.Merged))
}

func TestMergeOneSideOnly(t *testing.T) {
	base := []byte("a\nb\nc\n")
	res := Merge(base, base, []byte("a\nB\nc\nd\n"))
	assert.False(t, res.HasConflicts())
	assert.Equal(t, "a\nB\nc\nd\n", string(res.Merged))

	res = Merge(base, []byte("a\nc\n"), base)
	assert.False(t, res.HasConflicts())
	assert.Equal(t, "a\nc\n", string(res.Merged))
}

func TestMergeIdenticalChanges(t *testing.T) {
	res := Merge([]byte("a\nb\n"), []byte("a\nx\n"), []byte("a\nx\n"))
	assert.False(t, res.HasConflicts())
	assert.Equal(t, "a\nx\n", string(res.Merged))
}

func TestMergeConflict(t *testing.T) {
	res := Merge([]byte("a\nb\nc\n"), []byte("a\nours\nc\n"), []byte("a\ntheirs\nc\n"))
	assert.True(t, res.HasConflicts())
	assert.Equal(t, 1, res.Conflicts)
	assert.Equal(t, "a\n<<<<<<< HEAD\nours\n=======\ntheirs\n>>>>>>> MERGE_HEAD\nc\n", string(res.Merged))
}

func TestMergeConflictingInsertsIntoEmptyBase(t *testing.T) {
	res := MergeWithLabels(nil, []byte("x\n"), []byte("y\n"), Labels{Ours: "left", Theirs: "right"})
	assert.True(t, res.HasConflicts())
	assert.Equal(t, "<<<<<<< left\nx\n=======\ny\n>>>>>>> right\n", string(res.Merged))
}

func TestMergeAddedOnOneSide(t *testing.T) {
	res := Merge(nil, nil, []byte("new\n"))
	assert.False(t, res.HasConflicts())
	assert.Equal(t, "new\n", string(res.Merged))
}

func TestMergeDeletedVersusModified(t *testing.T) {
	res := Merge([]byte("keep\n"), nil, []byte("changed\n"))
	assert.True(t, res.HasConflicts())
	assert.Equal(t, "<<<<<<< HEAD\n=======\nchanged\n>>>>>>> MERGE_HEAD\n", string(res.Merged))
}

func TestMergeAllEmpty(t *testing.T) {
	res := Merge(nil, nil, nil)
	assert.False(t, res.HasConflicts())
	assert.Empty(t, res.Merged)
}

func TestMergeMissingTrailingNewline(t *testing.T) {
	res := Merge([]byte("a\nb"), []byte("a\nb"), []byte("A\nb"))
	assert.False(t, res.HasConflicts())
	assert.Equal(t, "A\nb\n", string(res.Merged))
}

func TestMergeSeparatedInsertions(t *testing.T) {
	base := []byte("1\n2\n3\n4\n")
	res := Merge(base, []byte("0\n1\n2\n3\n4\n"), []byte("1\n2\n3\n4\n5\n"))
	assert.False(t, res.HasConflicts())
	assert.Equal(t, "0\n1\n2\n3\n4\n5\n", string(res.Merged))
}
