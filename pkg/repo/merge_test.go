package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/twig/pkg/merge"
	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forkedRepo commits base content on master, then one commit on master and
// one on branch "other", each applying its own edit. HEAD ends on master.
func forkedRepo(t *testing.T, base, ours, theirs map[string]string) (r *Repo, head, other object.Hash) {
	t.Helper()
	r = initRepo(t)

	apply := func(files map[string]string) {
		for p, content := range files {
			if content == "" {
				require.NoError(t, os.Remove(filepath.Join(r.RootDir, filepath.FromSlash(p))))
				continue
			}
			writeFile(t, r.RootDir, p, content)
		}
	}

	apply(base)
	b, err := r.Commit("base")
	require.NoError(t, err)
	require.NoError(t, r.CreateBranch("other", b))

	apply(ours)
	head, err = r.Commit("ours")
	require.NoError(t, err)

	require.NoError(t, r.Checkout("other"))
	apply(theirs)
	other, err = r.Commit("theirs")
	require.NoError(t, err)

	require.NoError(t, r.Checkout("master"))
	return r, head, other
}

func TestMergeClean(t *testing.T) {
	r, head, other := forkedRepo(t,
		map[string]string{"a.txt": "1\n2\n3\n", "keep.txt": "k\n"},
		map[string]string{"a.txt": "ONE\n2\n3\n"},
		map[string]string{"a.txt": "1\n2\nTHREE\n", "new.txt": "n\n"},
	)

	res, err := r.Merge(other)
	require.NoError(t, err)
	assert.Empty(t, res.Conflicts)
	assert.Equal(t, head, res.Head)
	assert.Equal(t, 3, res.Files)

	merged := readFile(t, r.RootDir, "a.txt")
	assert.Equal(t, "ONE\n2\nTHREE\n", merged)
	assert.False(t, merge.HasConflictMarkers([]byte(merged)))
	assert.Equal(t, "k\n", readFile(t, r.RootDir, "keep.txt"))
	assert.Equal(t, "n\n", readFile(t, r.RootDir, "new.txt"))

	mh, err := r.Refs.Resolve(refs.MergeHead, false)
	require.NoError(t, err)
	assert.Equal(t, refs.Direct(other), mh.Value)

	mc, err := r.Commit("merge")
	require.NoError(t, err)
	c, err := r.Objects.ReadCommit(mc)
	require.NoError(t, err)
	assert.Equal(t, []object.Hash{head, other}, c.Parents)

	mh, err = r.Refs.Resolve(refs.MergeHead, false)
	require.NoError(t, err)
	assert.False(t, mh.Value.IsSet(), "commit clears MERGE_HEAD")

	master, err := r.ResolveName("master")
	require.NoError(t, err)
	assert.Equal(t, mc, master)
}

func TestMergeConflictWritesMarkers(t *testing.T) {
	r, _, other := forkedRepo(t,
		map[string]string{"a.txt": "x\n"},
		map[string]string{"a.txt": "ours\n"},
		map[string]string{"a.txt": "theirs\n"},
	)

	res, err := r.Merge(other)
	require.NoError(t, err, "conflicts are data, not errors")
	assert.Equal(t, []string{"a.txt"}, res.Conflicts)
	assert.Equal(t, "<<<<<<< HEAD\nours\n=======\ntheirs\n>>>>>>> MERGE_HEAD\n", readFile(t, r.RootDir, "a.txt"))

	st, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, other, st.MergeHead)
	assert.Equal(t, []string{"a.txt"}, st.Conflicts)
}

func TestMergeDeletion(t *testing.T) {
	r, _, other := forkedRepo(t,
		map[string]string{"a.txt": "a\n", "b.txt": "b\n"},
		map[string]string{"b.txt": "b2\n"},
		map[string]string{"a.txt": ""},
	)

	_, err := r.Merge(other)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(r.RootDir, "a.txt"))
	assert.True(t, os.IsNotExist(err), "deleted on one side, unchanged on the other")
	assert.Equal(t, "b2\n", readFile(t, r.RootDir, "b.txt"))
}

func TestMergeFastForwardShape(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "a.txt", "1\n")
	base, err := r.Commit("base")
	require.NoError(t, err)
	writeFile(t, r.RootDir, "a.txt", "2\n")
	ahead, err := r.Commit("ahead")
	require.NoError(t, err)
	require.NoError(t, r.Reset(base))
	require.NoError(t, r.Materialize(mustTree(t, r, base), r.RootDir))

	res, err := r.Merge(ahead)
	require.NoError(t, err)
	assert.Equal(t, base, res.Base)
	assert.Equal(t, "2\n", readFile(t, r.RootDir, "a.txt"))
}

func TestMergeWithoutHead(t *testing.T) {
	r := initRepo(t)
	g := commitGraph(t, r, [][2]string{{"A", ""}})
	_, err := r.Merge(g["A"])
	assert.ErrorIs(t, err, ErrNoCommits)
}

func mustTree(t *testing.T, r *Repo, c object.Hash) object.Hash {
	t.Helper()
	commit, err := r.Objects.ReadCommit(c)
	require.NoError(t, err)
	return commit.TreeHash
}

func TestMergeKeepsOneSidedEditsByteForByte(t *testing.T) {
	r, _, other := forkedRepo(t,
		map[string]string{"a.txt": "a\n", "bin.dat": "\x00\x01"},
		map[string]string{"a.txt": "x\ny", "bin.dat": "\x00\x02"},
		map[string]string{"c.txt": "c\n"},
	)

	res, err := r.Merge(other)
	require.NoError(t, err)
	assert.Empty(t, res.Conflicts)
	assert.Equal(t, "x\ny", readFile(t, r.RootDir, "a.txt"))
	assert.Equal(t, "\x00\x02", readFile(t, r.RootDir, "bin.dat"))
	assert.Equal(t, "c\n", readFile(t, r.RootDir, "c.txt"))
}
