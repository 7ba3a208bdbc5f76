// Package remote moves objects and branch refs between repositories that
// are reachable through the filesystem.
package remote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
	"github.com/odvcencio/twig/pkg/repo"
	"go.uber.org/zap"
)

// ErrNotRemote reports a location that holds no repository.
var ErrNotRemote = errors.New("not a twig repository")

// Transport is the other end of a push or fetch: an object store and a ref
// store at some location. Sync logic only decides which objects move.
type Transport interface {
	object.Reader
	Write(objType object.ObjectType, data []byte) (object.Hash, error)
	// ListRefs returns the refs under prefix, dereferenced, with values set.
	ListRefs(prefix string) ([]refs.Ref, error)
	// UpdateRef points name directly at h.
	UpdateRef(name string, h object.Hash) error
	String() string
}

// FileTransport is a Transport over a repository on a local or mounted
// filesystem.
type FileTransport struct {
	location string
	objects  *object.Store
	refs     *refs.Store
}

// OpenFile opens the repository at path, which may be a working tree root
// or its .twig directory.
func OpenFile(path string, log *zap.Logger) (*FileTransport, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open remote %q: %w", path, err)
	}

	dir := filepath.Join(abs, repo.DirName)
	if filepath.Base(abs) == repo.DirName {
		dir = abs
	}
	info, err := os.Stat(filepath.Join(dir, "objects"))
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("open remote %s: %w", abs, ErrNotRemote)
	}

	return &FileTransport{
		location: abs,
		objects:  object.NewStore(dir, object.WithStoreLogger(log.Named("remote-objects"))),
		refs:     refs.NewStore(dir, refs.WithLogger(log.Named("remote-refs"))),
	}, nil
}

func (t *FileTransport) Has(h object.Hash) bool { return t.objects.Has(h) }

func (t *FileTransport) Read(h object.Hash) (object.ObjectType, []byte, error) {
	return t.objects.Read(h)
}

func (t *FileTransport) Write(objType object.ObjectType, data []byte) (object.Hash, error) {
	return t.objects.Write(objType, data)
}

func (t *FileTransport) ListRefs(prefix string) ([]refs.Ref, error) {
	return t.refs.List(prefix, true)
}

func (t *FileTransport) UpdateRef(name string, h object.Hash) error {
	return t.refs.UpdateWithReason(name, refs.Direct(h), true, "push")
}

func (t *FileTransport) String() string { return t.location }
