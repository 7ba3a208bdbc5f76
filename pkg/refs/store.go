package refs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/odvcencio/twig/pkg/object"
	"go.uber.org/zap"
)

// Reserved ref names and namespaces.
const (
	HEAD      = "HEAD"
	MergeHead = "MERGE_HEAD"

	BranchPrefix = "refs/heads/"
	TagPrefix    = "refs/tags/"
	RemotePrefix = "refs/remote/"
)

var (
	// ErrAmbiguousOrMissingRef reports a ref name with no usable backing
	// location, either because it is malformed or because nothing is stored.
	ErrAmbiguousOrMissingRef = errors.New("ambiguous or missing ref")
	ErrEmptyTarget           = errors.New("empty ref target")
	ErrCASMismatch           = errors.New("ref compare-and-swap mismatch")
	ErrSymbolicLoop          = errors.New("symbolic ref chain too deep")
)

const (
	maxSymbolicDepth = 16

	lockRetryDelay = 5 * time.Millisecond
	lockWaitLimit  = 2 * time.Second
)

// Store maps ref names to values, one file per ref under root. Names mirror
// file paths, e.g. "HEAD" or "refs/heads/master".
type Store struct {
	root string
	log  *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for ref updates.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore returns a Store rooted at the given metadata directory.
func NewStore(root string, opts ...Option) *Store {
	s := &Store{root: root, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init creates the ref namespaces. Existing refs are left alone.
func (s *Store) Init() error {
	for _, ns := range []string{BranchPrefix, TagPrefix} {
		if err := os.MkdirAll(filepath.Join(s.root, filepath.FromSlash(ns)), 0o755); err != nil {
			return fmt.Errorf("refs init: %w", err)
		}
	}
	return nil
}

// Resolved is the terminal location reached by Resolve.
type Resolved struct {
	Name  string // ref whose file holds Value
	Value Value
}

// Resolve looks up name. With follow set, symbolic values are chased until a
// direct or unset value is reached. An unset result is not an error.
func (s *Store) Resolve(name string, follow bool) (Resolved, error) {
	for depth := 0; ; depth++ {
		if err := ValidateName(name); err != nil {
			return Resolved{}, err
		}
		v, err := s.read(name)
		if err != nil {
			return Resolved{}, err
		}
		if !follow || v.Kind != KindSymbolic {
			return Resolved{Name: name, Value: v}, nil
		}
		if depth >= maxSymbolicDepth {
			return Resolved{}, fmt.Errorf("resolve ref %q: %w", name, ErrSymbolicLoop)
		}
		name = v.Target
	}
}

// Update writes v to the location name resolves to. With follow set, an
// update of a symbolic ref lands on the ref it points at.
func (s *Store) Update(name string, v Value, follow bool) error {
	return s.update(name, v, follow, nil, "update")
}

// UpdateWithReason is Update with a reflog message.
func (s *Store) UpdateWithReason(name string, v Value, follow bool, reason string) error {
	return s.update(name, v, follow, nil, reason)
}

// UpdateCAS is Update guarded by compare-and-swap: the write only happens
// when the current direct hash at the resolved location equals expectedOld.
// An empty expectedOld requires the location to hold no direct hash.
func (s *Store) UpdateCAS(name string, v Value, follow bool, expectedOld object.Hash, reason string) error {
	return s.update(name, v, follow, &expectedOld, reason)
}

func (s *Store) update(name string, v Value, follow bool, expectedOld *object.Hash, reason string) error {
	if !v.IsSet() {
		return fmt.Errorf("update ref %q: %w", name, ErrEmptyTarget)
	}
	if v.Kind == KindSymbolic {
		if err := ValidateName(v.Target); err != nil {
			return fmt.Errorf("update ref %q: target: %w", name, err)
		}
	}

	res, err := s.Resolve(name, follow)
	if err != nil {
		return fmt.Errorf("update ref %q: %w", name, err)
	}
	target := res.Name
	refPath := s.path(target)

	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", target, err)
	}

	lockPath := refPath + ".lock"
	lockFile, err := acquireLock(lockPath)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", target, err)
	}
	cleanupLock := true
	defer func() {
		if lockFile != nil {
			_ = lockFile.Close()
		}
		if cleanupLock {
			_ = os.Remove(lockPath)
		}
	}()

	old, err := s.read(target)
	if err != nil {
		return fmt.Errorf("update ref %q: read old value: %w", target, err)
	}
	if expectedOld != nil && old.Hash != *expectedOld {
		return fmt.Errorf("update ref %q: %w (expected %q, found %q)", target, ErrCASMismatch, *expectedOld, old.Hash)
	}

	if _, err := lockFile.WriteString(v.encode()); err != nil {
		return fmt.Errorf("update ref %q: write: %w", target, err)
	}
	if err := lockFile.Sync(); err != nil {
		return fmt.Errorf("update ref %q: sync: %w", target, err)
	}
	if err := lockFile.Close(); err != nil {
		lockFile = nil
		return fmt.Errorf("update ref %q: close: %w", target, err)
	}
	lockFile = nil

	if err := os.Rename(lockPath, refPath); err != nil {
		return fmt.Errorf("update ref %q: rename: %w", target, err)
	}
	cleanupLock = false

	s.log.Debug("ref updated", zap.String("ref", target), zap.String("old", old.String()), zap.String("new", v.String()))

	if v.Kind == KindDirect {
		if err := s.appendReflog(target, old.Hash, v.Hash, reason); err != nil {
			return fmt.Errorf("update ref %q: reflog: %w", target, err)
		}
	}
	return nil
}

// Delete removes the backing file of the location name resolves to. Object
// data is never touched.
func (s *Store) Delete(name string, follow bool) error {
	res, err := s.Resolve(name, follow)
	if err != nil {
		return fmt.Errorf("delete ref %q: %w", name, err)
	}
	if res.Value.Kind == KindUnset {
		return fmt.Errorf("delete ref %q: %w", name, ErrAmbiguousOrMissingRef)
	}
	if err := os.Remove(s.path(res.Name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete ref %q: %w", name, ErrAmbiguousOrMissingRef)
		}
		return fmt.Errorf("delete ref %q: %w", name, err)
	}
	s.log.Debug("ref deleted", zap.String("ref", res.Name))
	return nil
}

// List returns every ref whose name starts with prefix and whose value
// (dereferenced when follow is set) is non-empty. HEAD and MERGE_HEAD come
// first, then refs/ in lexical order.
func (s *Store) List(prefix string, follow bool) ([]Ref, error) {
	names := []string{HEAD, MergeHead}

	refsRoot := filepath.Join(s.root, "refs")
	var walked []string
	err := filepath.WalkDir(refsRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasSuffix(d.Name(), ".lock") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		walked = append(walked, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	sort.Strings(walked)
	names = append(names, walked...)

	var out []Ref
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		res, err := s.Resolve(name, follow)
		if err != nil {
			return nil, fmt.Errorf("list refs: %w", err)
		}
		if !res.Value.IsSet() {
			continue
		}
		out = append(out, Ref{Name: name, Value: res.Value})
	}
	return out, nil
}

// ValidateName rejects names that are empty or would escape the ref root.
func ValidateName(name string) error {
	bad := name == "" ||
		strings.HasPrefix(name, "/") ||
		strings.HasSuffix(name, "/") ||
		strings.HasSuffix(name, ".lock") ||
		strings.ContainsAny(name, "\\\x00\n\r\t ")
	if !bad {
		for _, part := range strings.Split(name, "/") {
			if part == "" || part == "." || part == ".." {
				bad = true
				break
			}
		}
	}
	if bad {
		return fmt.Errorf("%w: invalid ref name %q", ErrAmbiguousOrMissingRef, name)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// read loads the raw value stored for name. Missing files and directories
// are unset.
func (s *Store) read(name string) (Value, error) {
	p := s.path(name)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Value{}, nil
		}
		return Value{}, fmt.Errorf("read ref %q: %w", name, err)
	}
	if info.IsDir() {
		return Value{}, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return Value{}, fmt.Errorf("read ref %q: %w", name, err)
	}
	return decode(data), nil
}

func acquireLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(lockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if os.IsExist(err) {
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("timeout waiting for lock %q", lockPath)
			}
			time.Sleep(lockRetryDelay)
			continue
		}
		return nil, err
	}
}
