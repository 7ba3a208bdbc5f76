package object

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Reader is the read side of an object store. Local stores and remote
// transports both satisfy it, so history traversal can run against either.
type Reader interface {
	Has(h Hash) bool
	Read(h Hash) (ObjectType, []byte, error)
}

// Store is a content-addressed object store with a flat layout: one file per
// object under objects/, named by its hex hash.
type Store struct {
	root string
	log  *zap.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for object writes.
func WithStoreLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore creates a Store rooted at the given metadata directory. The
// objects/ subdirectory is created by Init or lazily on first write.
func NewStore(root string, opts ...StoreOption) *Store {
	s := &Store{root: root, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) objectsDir() string {
	return filepath.Join(s.root, "objects")
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.objectsDir(), string(h))
}

// Init creates the objects directory. Calling it on an existing store is a
// no-op.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.objectsDir(), 0o755); err != nil {
		return fmt.Errorf("object store init: %w", err)
	}
	return nil
}

// Has reports whether the store contains an object with the given hash. It
// never fails; malformed hashes simply report false.
func (s *Store) Has(h Hash) bool {
	if !IsFullHash(string(h)) {
		return false
	}
	info, err := os.Stat(s.objectPath(h))
	return err == nil && info.Mode().IsRegular()
}

// Write stores an object and returns its content hash. The on-disk format
// is "type\0content". Writing an object that already exists is a no-op.
// New objects are written to a temp file and renamed into place.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	if !objType.Valid() {
		return "", fmt.Errorf("object write: unknown type %q", objType)
	}
	raw := frame(objType, data)
	h := hashFramed(raw)

	if s.Has(h) {
		return h, nil
	}

	dir := s.objectsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w", err)
	}
	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w", err)
	}

	s.log.Debug("object written", zap.String("hash", string(h)), zap.String("type", string(objType)), zap.Int("size", len(data)))
	return h, nil
}

// Read retrieves an object by hash, returning its type and payload.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	if !IsFullHash(string(h)) {
		return "", nil, fmt.Errorf("object read %q: %w", h, ErrObjectNotFound)
	}
	raw, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return "", nil, fmt.Errorf("object read %s: %w (no NUL)", h, ErrMalformedObject)
	}
	return ObjectType(raw[:nul]), raw[nul+1:], nil
}

// ReadType reads an object and verifies its type tag matches want.
func (s *Store) ReadType(h Hash, want ObjectType) ([]byte, error) {
	return ReadType(s, h, want)
}

// ReadType reads h from r and verifies its type tag matches want.
func ReadType(r Reader, h Hash, want ObjectType) ([]byte, error) {
	got, data, err := r.Read(h)
	if err != nil {
		return nil, err
	}
	if got != want {
		return nil, &TypeMismatchError{Hash: h, Got: got, Want: want}
	}
	return data, nil
}

// MatchPrefix returns the hashes of all stored objects that start with the
// given hex prefix, sorted.
func (s *Store) MatchPrefix(prefix string) ([]Hash, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || !isHex(prefix) {
		return nil, nil
	}
	out, err := s.list(prefix)
	if err != nil {
		return nil, fmt.Errorf("match prefix %q: %w", prefix, err)
	}
	return out, nil
}

// All returns the hash of every stored object, sorted.
func (s *Store) All() ([]Hash, error) {
	out, err := s.list("")
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	return out, nil
}

func (s *Store) list(prefix string) ([]Hash, error) {
	entries, err := os.ReadDir(s.objectsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []Hash
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !IsFullHash(name) {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			out = append(out, Hash(name))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Remove deletes the object h. Removing a missing object reports
// ErrObjectNotFound.
func (s *Store) Remove(h Hash) error {
	if !IsFullHash(string(h)) {
		return fmt.Errorf("object remove %q: %w", h, ErrObjectNotFound)
	}
	if err := os.Remove(s.objectPath(h)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("object remove %s: %w", h, ErrObjectNotFound)
		}
		return fmt.Errorf("object remove %s: %w", h, err)
	}
	s.log.Debug("object removed", zap.String("hash", string(h)))
	return nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, b.Data)
}

// ReadBlob reads a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	return ReadBlob(s, h)
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	data, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Write(TypeTree, data)
}

// ReadTree reads and parses a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	return ReadTree(s, h)
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and parses a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	return ReadCommit(s, h)
}

// ReadBlob reads a Blob from r.
func ReadBlob(r Reader, h Hash) (*Blob, error) {
	data, err := ReadType(r, h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return &Blob{Data: data}, nil
}

// ReadTree reads and parses a TreeObj from r.
func ReadTree(r Reader, h Hash) (*TreeObj, error) {
	data, err := ReadType(r, h, TypeTree)
	if err != nil {
		return nil, err
	}
	tr, err := UnmarshalTree(data)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", h, err)
	}
	return tr, nil
}

// ReadCommit reads and parses a CommitObj from r.
func ReadCommit(r Reader, h Hash) (*CommitObj, error) {
	data, err := ReadType(r, h, TypeCommit)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", h, err)
	}
	return c, nil
}
