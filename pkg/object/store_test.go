package object

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const missingHash = Hash("0000000000000000000000000000000000000000")

func tempStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(t.TempDir())
	require.NoError(t, s.Init())
	return s
}

func TestHashObjectKnownVector(t *testing.T) {
	// sha1("blob\x00hello")
	assert.Equal(t, Hash("5b211494ba9e0f5c98ca51e8732bda579d8487ef"), HashObject(TypeBlob, []byte("hello")))
}

func TestHashObjectTypeIsPartOfDigest(t *testing.T) {
	data := []byte("hello")
	assert.Equal(t, HashObject(TypeBlob, data), HashObject(TypeBlob, data))
	assert.NotEqual(t, HashObject(TypeBlob, data), HashObject(TypeTree, data))
	assert.Len(t, string(HashObject(TypeCommit, data)), HashLen)
}

func TestStoreInitIdempotent(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)
	require.NoError(t, s.Init())
	h, err := s.Write(TypeBlob, []byte("kept"))
	require.NoError(t, err)

	require.NoError(t, s.Init())
	assert.True(t, s.Has(h), "re-init must not discard objects")
}

func TestStoreWriteRead(t *testing.T) {
	s := tempStore(t)
	data := []byte("hello world")
	h, err := s.Write(TypeBlob, data)
	require.NoError(t, err)
	assert.Equal(t, HashObject(TypeBlob, data), h)

	gotType, gotData, err := s.Read(h)
	require.NoError(t, err)
	assert.Equal(t, TypeBlob, gotType)
	assert.Equal(t, data, gotData)
}

func TestStoreOnDiskFraming(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeCommit, []byte("payload"))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(s.root, "objects", string(h)))
	require.NoError(t, err)
	assert.Equal(t, []byte("commit\x00payload"), raw)
}

func TestStoreDuplicateWriteSingleRecord(t *testing.T) {
	s := tempStore(t)
	h1, err := s.Write(TypeBlob, []byte("duplicate"))
	require.NoError(t, err)
	h2, err := s.Write(TypeBlob, []byte("duplicate"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	entries, err := os.ReadDir(filepath.Join(s.root, "objects"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStoreEmptyPayload(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, nil)
	require.NoError(t, err)
	data, err := s.ReadType(h, TypeBlob)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestStoreHas(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("exists"))
	require.NoError(t, err)

	assert.True(t, s.Has(h))
	assert.False(t, s.Has(missingHash))
	assert.False(t, s.Has("not-a-hash"))
	assert.False(t, s.Has("../../etc/passwd"))
}

func TestStoreReadMissing(t *testing.T) {
	s := tempStore(t)
	_, _, err := s.Read(missingHash)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestStoreReadTypeMismatch(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("just a blob"))
	require.NoError(t, err)

	_, err = s.ReadType(h, TypeTree)
	require.ErrorIs(t, err, ErrTypeMismatch)

	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, TypeBlob, mismatch.Got)
	assert.Equal(t, TypeTree, mismatch.Want)
}

func TestStoreWriteRejectsUnknownType(t *testing.T) {
	s := tempStore(t)
	_, err := s.Write(ObjectType("tag"), []byte("x"))
	assert.Error(t, err)
}

func TestStoreMatchPrefix(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("prefix me"))
	require.NoError(t, err)

	got, err := s.MatchPrefix(string(h[:6]))
	require.NoError(t, err)
	assert.Equal(t, []Hash{h}, got)

	got, err = s.MatchPrefix("zzzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStoreAllAndRemove(t *testing.T) {
	s := tempStore(t)
	all, err := s.All()
	require.NoError(t, err)
	assert.Empty(t, all)

	a, err := s.Write(TypeBlob, []byte("a"))
	require.NoError(t, err)
	b, err := s.Write(TypeBlob, []byte("b"))
	require.NoError(t, err)

	all, err = s.All()
	require.NoError(t, err)
	want := []Hash{a, b}
	if b < a {
		want = []Hash{b, a}
	}
	assert.Equal(t, want, all)

	require.NoError(t, s.Remove(a))
	assert.False(t, s.Has(a))
	assert.ErrorIs(t, s.Remove(a), ErrObjectNotFound)

	all, err = s.All()
	require.NoError(t, err)
	assert.Equal(t, []Hash{b}, all)
}

func TestStoreTypedRoundTrip(t *testing.T) {
	s := tempStore(t)
	blobHash, err := s.WriteBlob(&Blob{Data: []byte("content\n")})
	require.NoError(t, err)
	treeHash, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{{Kind: TypeBlob, Hash: blobHash, Name: "a.txt"}}})
	require.NoError(t, err)
	commitHash, err := s.WriteCommit(&CommitObj{TreeHash: treeHash, Message: "first"})
	require.NoError(t, err)

	c, err := s.ReadCommit(commitHash)
	require.NoError(t, err)
	assert.Equal(t, treeHash, c.TreeHash)
	assert.Empty(t, c.Parents)

	tr, err := s.ReadTree(c.TreeHash)
	require.NoError(t, err)
	require.Len(t, tr.Entries, 1)
	assert.Equal(t, "a.txt", tr.Entries[0].Name)

	b, err := s.ReadBlob(tr.Entries[0].Hash)
	require.NoError(t, err)
	assert.Equal(t, "content\n", string(b.Data))

	_, err = s.ReadTree(commitHash)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestFlattenTreeNested(t *testing.T) {
	s := tempStore(t)
	a, err := s.WriteBlob(&Blob{Data: []byte("a")})
	require.NoError(t, err)
	b, err := s.WriteBlob(&Blob{Data: []byte("b")})
	require.NoError(t, err)
	inner, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{{Kind: TypeBlob, Hash: b, Name: "b.txt"}}})
	require.NoError(t, err)
	mid, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{{Kind: TypeTree, Hash: inner, Name: "deep"}}})
	require.NoError(t, err)
	root, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{
		{Kind: TypeBlob, Hash: a, Name: "a.txt"},
		{Kind: TypeTree, Hash: mid, Name: "dir"},
	}})
	require.NoError(t, err)

	flat, err := s.FlattenTree(root)
	require.NoError(t, err)
	assert.Equal(t, map[string]Hash{
		"a.txt":          a,
		"dir/deep/b.txt": b,
	}, flat)
}

func TestFlattenTreeRejectsTraversalNames(t *testing.T) {
	s := tempStore(t)
	blob, err := s.WriteBlob(&Blob{Data: []byte("x")})
	require.NoError(t, err)

	// Bypass MarshalTree validation to simulate a hostile stored record.
	h, err := s.Write(TypeTree, []byte("blob "+string(blob)+" ..\n"))
	require.NoError(t, err)

	_, err = s.FlattenTree(h)
	assert.ErrorIs(t, err, ErrMalformedTree)
}

func TestFlattenEmptyHash(t *testing.T) {
	s := tempStore(t)
	flat, err := s.FlattenTree("")
	require.NoError(t, err)
	assert.Empty(t, flat)
}
