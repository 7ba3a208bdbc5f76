package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitCheckoutRoundTrip(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "a.txt", "hello")

	c1, err := r.Commit("first")
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(r.RootDir, "a.txt")))
	require.NoError(t, r.Checkout(string(c1)))
	assert.Equal(t, "hello", readFile(t, r.RootDir, "a.txt"))

	branch, err := r.Refs.Resolve("refs/heads/master", false)
	require.NoError(t, err)
	assert.Equal(t, refs.Direct(c1), branch.Value, "first commit lands on the init branch")

	require.NoError(t, r.Checkout("master"))
	head, err := r.Refs.Resolve(refs.HEAD, false)
	require.NoError(t, err)
	assert.Equal(t, refs.Symbolic("refs/heads/master"), head.Value)
}

func TestCommitChainsParents(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "a.txt", "1")
	c1, err := r.Commit("one")
	require.NoError(t, err)
	writeFile(t, r.RootDir, "a.txt", "2")
	c2, err := r.Commit("two\n\nbody")
	require.NoError(t, err)

	c, err := r.Objects.ReadCommit(c2)
	require.NoError(t, err)
	assert.Equal(t, []object.Hash{c1}, c.Parents)
	assert.Equal(t, "two\n\nbody", c.Message)

	head, err := r.Head()
	require.NoError(t, err)
	assert.Equal(t, c2, head)

	log, err := r.ReadReflog("", 0)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, "commit: two", log[0].Reason)
	assert.Equal(t, "commit (initial): one", log[1].Reason)
}

func TestCommitEmptyRoot(t *testing.T) {
	r := initRepo(t)
	h, err := r.Commit("empty")
	require.NoError(t, err)

	c, err := r.Objects.ReadCommit(h)
	require.NoError(t, err)
	assert.Empty(t, c.Parents)
	files, err := r.Objects.FlattenTree(c.TreeHash)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCommitDetachedDoesNotMoveBranch(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "a.txt", "1")
	c1, err := r.Commit("one")
	require.NoError(t, err)

	require.NoError(t, r.Checkout(string(c1)))
	writeFile(t, r.RootDir, "a.txt", "2")
	c2, err := r.Commit("detached")
	require.NoError(t, err)

	master, err := r.ResolveName("master")
	require.NoError(t, err)
	assert.Equal(t, c1, master)
	head, err := r.Refs.Resolve(refs.HEAD, false)
	require.NoError(t, err)
	assert.Equal(t, refs.Direct(c2), head.Value)
}

func TestCheckoutBranchVersusHash(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "a.txt", "1")
	c1, err := r.Commit("one")
	require.NoError(t, err)
	require.NoError(t, r.CreateBranch("feature", c1))

	require.NoError(t, r.Checkout("feature"))
	branch, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)

	require.NoError(t, r.Checkout(c1.Short()))
	branch, err = r.CurrentBranch()
	require.NoError(t, err)
	assert.Empty(t, branch, "a hash checkout detaches HEAD")
}

func TestCheckoutUnknown(t *testing.T) {
	r := initRepo(t)
	assert.ErrorIs(t, r.Checkout("nope"), ErrUnknownRevision)
}

func TestResetMovesBranchOnly(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "a.txt", "1")
	c1, err := r.Commit("one")
	require.NoError(t, err)
	writeFile(t, r.RootDir, "a.txt", "2")
	_, err = r.Commit("two")
	require.NoError(t, err)

	require.NoError(t, r.Reset(c1))

	master, err := r.ResolveName("master")
	require.NoError(t, err)
	assert.Equal(t, c1, master)
	assert.Equal(t, "2", readFile(t, r.RootDir, "a.txt"), "working tree untouched")

	branch, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestResetRejectsNonCommit(t *testing.T) {
	r := initRepo(t)
	blob, err := r.Objects.WriteBlob(&object.Blob{Data: []byte("x")})
	require.NoError(t, err)
	assert.ErrorIs(t, r.Reset(blob), object.ErrTypeMismatch)
}
