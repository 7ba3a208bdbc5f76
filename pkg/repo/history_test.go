package repo

import (
	"testing"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkLinear(t *testing.T) {
	r := initRepo(t)
	g := commitGraph(t, r, [][2]string{{"A", ""}, {"B", "A"}, {"C", "B"}})

	got, err := r.History().Ancestors(g["C"])
	require.NoError(t, err)
	assert.Equal(t, []object.Hash{g["C"], g["B"], g["A"]}, got)
}

func TestWalkFirstParentPriority(t *testing.T) {
	// A - B - M
	//  \     /
	//   C - D
	r := initRepo(t)
	g := commitGraph(t, r, [][2]string{
		{"A", ""},
		{"B", "A"},
		{"C", "A"},
		{"D", "C"},
		{"M", "B"}, {"M", "D"},
	})

	got, err := r.History().Ancestors(g["M"])
	require.NoError(t, err)
	assert.Equal(t, []object.Hash{g["M"], g["B"], g["A"], g["D"], g["C"]}, got)
}

func TestWalkDeduplicatesSeeds(t *testing.T) {
	r := initRepo(t)
	g := commitGraph(t, r, [][2]string{{"A", ""}, {"B", "A"}})

	got, err := r.History().Ancestors(g["B"], "", g["A"], g["B"])
	require.NoError(t, err)
	assert.Equal(t, []object.Hash{g["B"], g["A"]}, got)
}

func TestWalkIsLazy(t *testing.T) {
	r := initRepo(t)
	g := commitGraph(t, r, [][2]string{{"A", ""}})
	missing := object.Hash("0000000000000000000000000000000000000000")

	w := r.History().Walk(g["A"], missing)
	require.True(t, w.Next())
	assert.Equal(t, g["A"], w.Hash())
	assert.Equal(t, "A", w.Commit().Message)
	assert.NoError(t, w.Err(), "the missing seed is not read yet")

	assert.False(t, w.Next())
	assert.ErrorIs(t, w.Err(), object.ErrObjectNotFound)
	assert.False(t, w.Next(), "a failed walk stays finished")
}

func TestMergeBaseFork(t *testing.T) {
	r := initRepo(t)
	g := commitGraph(t, r, [][2]string{
		{"A", ""},
		{"B", "A"}, {"D", "B"},
		{"C", "A"}, {"E", "C"},
	})

	base, err := r.History().MergeBase(g["D"], g["E"])
	require.NoError(t, err)
	assert.Equal(t, g["A"], base)
}

func TestMergeBaseAncestor(t *testing.T) {
	r := initRepo(t)
	g := commitGraph(t, r, [][2]string{{"A", ""}, {"B", "A"}, {"C", "B"}})

	base, err := r.History().MergeBase(g["C"], g["B"])
	require.NoError(t, err)
	assert.Equal(t, g["B"], base)

	base, err = r.History().MergeBase(g["B"], g["C"])
	require.NoError(t, err)
	assert.Equal(t, g["B"], base)
}

func TestMergeBaseCrissCrossTieBreak(t *testing.T) {
	// X and Y both merge P and Q, in opposite parent order. Both P and Q are
	// lowest common ancestors; the first one reached from the second
	// argument along its first-parent-priority walk wins.
	r := initRepo(t)
	g := commitGraph(t, r, [][2]string{
		{"R", ""},
		{"P", "R"},
		{"Q", "R"},
		{"X", "P"}, {"X", "Q"},
		{"Y", "Q"}, {"Y", "P"},
	})

	base, err := r.History().MergeBase(g["X"], g["Y"])
	require.NoError(t, err)
	assert.Equal(t, g["Q"], base)

	base, err = r.History().MergeBase(g["Y"], g["X"])
	require.NoError(t, err)
	assert.Equal(t, g["P"], base)
}

func TestMergeBaseDisjoint(t *testing.T) {
	r := initRepo(t)
	g := commitGraph(t, r, [][2]string{{"A", ""}, {"Z", ""}})
	// Z and A share the empty tree but no commit.
	base, err := r.History().MergeBase(g["A"], g["Z"])
	require.NoError(t, err)
	assert.Empty(t, base)
}

func TestMergeBaseCachedPerOrderedPair(t *testing.T) {
	r := initRepo(t)
	g := commitGraph(t, r, [][2]string{
		{"R", ""},
		{"P", "R"},
		{"Q", "R"},
		{"X", "P"}, {"X", "Q"},
		{"Y", "Q"}, {"Y", "P"},
		{"Z", ""},
	})
	h := NewHistory(r.Objects)

	for i := 0; i < 2; i++ {
		base, err := h.MergeBase(g["X"], g["Y"])
		require.NoError(t, err)
		assert.Equal(t, g["Q"], base)
	}
	assert.Equal(t, 1, h.bases.size())

	base, err := h.MergeBase(g["Y"], g["X"])
	require.NoError(t, err)
	assert.Equal(t, g["P"], base)
	assert.Equal(t, 2, h.bases.size())

	base, err = h.MergeBase(g["X"], g["Z"])
	require.NoError(t, err)
	assert.Empty(t, base)
	cached, ok := h.bases.load(g["X"], g["Z"])
	assert.True(t, ok)
	assert.Empty(t, cached)
}

func TestReachableObjects(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "a.txt", "a")
	writeFile(t, r.RootDir, "dir/b.txt", "b")
	c1, err := r.Commit("one")
	require.NoError(t, err)
	writeFile(t, r.RootDir, "a.txt", "a2")
	c2, err := r.Commit("two")
	require.NoError(t, err)

	got, err := r.History().ReachableObjects(c2)
	require.NoError(t, err)

	want := map[object.Hash]struct{}{c1: {}, c2: {}}
	for _, c := range []object.Hash{c1, c2} {
		commit, err := r.Objects.ReadCommit(c)
		require.NoError(t, err)
		want[commit.TreeHash] = struct{}{}
		root, err := r.Objects.ReadTree(commit.TreeHash)
		require.NoError(t, err)
		for _, e := range root.Entries {
			want[e.Hash] = struct{}{}
		}
		files, err := r.Objects.FlattenTree(commit.TreeHash)
		require.NoError(t, err)
		for _, h := range files {
			want[h] = struct{}{}
		}
	}
	assert.Equal(t, want, got)

	only1, err := r.History().ReachableObjects(c1)
	require.NoError(t, err)
	assert.NotContains(t, only1, c2)
	assert.Less(t, len(only1), len(got))
}
