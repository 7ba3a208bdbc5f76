package repo

import (
	"errors"
	"path/filepath"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
	"go.uber.org/zap"
)

// DirName is the metadata directory kept at the root of every working tree.
const DirName = ".twig"

var (
	// ErrUnknownRevision reports a name that matched no ref, full hash or
	// unique hash prefix.
	ErrUnknownRevision = errors.New("unknown revision")
	ErrNotRepository   = errors.New("not a twig repository")
	ErrNoCommits       = errors.New("HEAD does not point at a commit")
)

// Repo represents an opened repository: a working tree plus its object and
// ref stores.
type Repo struct {
	RootDir string        // working directory root
	Dir     string        // .twig/ directory
	Objects *object.Store // content-addressed object store
	Refs    *refs.Store   // HEAD, MERGE_HEAD and refs/**

	log     *zap.Logger
	history *History
	ignore  *IgnoreChecker
}

type options struct {
	log *zap.Logger
}

// Option configures a Repo handle.
type Option func(*options)

// WithLogger routes repository, object and ref logging to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newRepo(root string, opts ...Option) (*Repo, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	dir := filepath.Join(root, DirName)
	objects := object.NewStore(dir, object.WithStoreLogger(o.log.Named("objects")))
	r := &Repo{
		RootDir: root,
		Dir:     dir,
		Objects: objects,
		Refs:    refs.NewStore(dir, refs.WithLogger(o.log.Named("refs"))),
		log:     o.log,
		history: NewHistory(objects),
	}

	cfg, err := r.ReadConfig()
	if err != nil {
		return nil, err
	}
	r.ignore = NewIgnoreChecker(cfg.Core.Ignore...)
	return r, nil
}

// History returns the commit-graph engine over this repository's objects.
func (r *Repo) History() *History {
	return r.history
}

// Ignore returns the predicate applied to working-tree paths.
func (r *Repo) Ignore() *IgnoreChecker {
	return r.ignore
}
