package remote

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
	"github.com/odvcencio/twig/pkg/repo"
	"go.uber.org/zap"
)

// RefUpdate records a ref written by a sync.
type RefUpdate struct {
	Name string
	Old  object.Hash
	New  object.Hash
}

// Result lists what a push or fetch changed.
type Result struct {
	Objects []object.Hash // copied objects, sorted
	Refs    []RefUpdate
}

type options struct {
	log *zap.Logger
}

// Option configures Fetch and Push.
type Option func(*options)

// WithLogger sets the logger used for sync progress.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Fetch mirrors every remote branch into refs/remote/<name>. All objects
// reachable from the remote branch tips that are missing locally are
// copied first. Local branches are never touched and no fast-forward check
// is made.
func Fetch(ctx context.Context, local *repo.Repo, t Transport, opts ...Option) (*Result, error) {
	o := buildOptions(opts)

	heads, err := t.ListRefs(refs.BranchPrefix)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: list refs: %w", t, err)
	}
	tips := make([]object.Hash, 0, len(heads))
	for _, h := range heads {
		tips = append(tips, h.Value.Hash)
	}

	reachable, err := repo.NewHistory(t).ReachableObjects(tips...)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", t, err)
	}
	copied, err := copyObjects(ctx, t, local.Objects, reachable)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", t, err)
	}

	res := &Result{Objects: copied}
	for _, h := range heads {
		name := refs.RemotePrefix + strings.TrimPrefix(h.Name, refs.BranchPrefix)
		old, err := local.Refs.Resolve(name, false)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", t, err)
		}
		if err := local.Refs.UpdateWithReason(name, refs.Direct(h.Value.Hash), false, "fetch: "+t.String()); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", t, err)
		}
		res.Refs = append(res.Refs, RefUpdate{Name: name, Old: old.Value.Hash, New: h.Value.Hash})
	}

	o.log.Info("fetched",
		zap.String("remote", t.String()),
		zap.Int("refs", len(res.Refs)),
		zap.Int("objects", len(res.Objects)),
	)
	return res, nil
}

// Push sends the local ref refName to the remote and points the remote ref
// at the same commit. Only objects reachable from the local ref and not
// reachable from any remote ref are copied; objects the remote already
// stores are skipped as well. The remote ref is overwritten without a
// fast-forward check.
func Push(ctx context.Context, local *repo.Repo, t Transport, refName string, opts ...Option) (*Result, error) {
	o := buildOptions(opts)

	name := refName
	if !strings.HasPrefix(name, "refs/") {
		name = refs.BranchPrefix + name
	}
	res, err := local.Refs.Resolve(name, true)
	if err != nil {
		return nil, fmt.Errorf("push %s: %w", refName, err)
	}
	if res.Value.Kind != refs.KindDirect || !res.Value.IsSet() {
		return nil, fmt.Errorf("push %s: %w", refName, refs.ErrAmbiguousOrMissingRef)
	}
	tip := res.Value.Hash

	remoteRefs, err := t.ListRefs("")
	if err != nil {
		return nil, fmt.Errorf("push %s: list remote refs: %w", t, err)
	}
	var remoteTips []object.Hash
	var old object.Hash
	for _, r := range remoteRefs {
		if r.Name == name {
			old = r.Value.Hash
		}
		if t.Has(r.Value.Hash) {
			remoteTips = append(remoteTips, r.Value.Hash)
		}
	}

	known, err := repo.NewHistory(t).ReachableObjects(remoteTips...)
	if err != nil {
		return nil, fmt.Errorf("push %s: remote history: %w", t, err)
	}
	wanted, err := local.History().ReachableObjects(tip)
	if err != nil {
		return nil, fmt.Errorf("push %s: %w", refName, err)
	}
	missing := make(map[object.Hash]struct{}, len(wanted))
	for h := range wanted {
		if _, ok := known[h]; !ok {
			missing[h] = struct{}{}
		}
	}

	copied, err := copyObjects(ctx, local.Objects, t, missing)
	if err != nil {
		return nil, fmt.Errorf("push %s: %w", t, err)
	}
	if err := t.UpdateRef(name, tip); err != nil {
		return nil, fmt.Errorf("push %s: update remote ref: %w", t, err)
	}

	o.log.Info("pushed",
		zap.String("remote", t.String()),
		zap.String("ref", name),
		zap.String("commit", string(tip)),
		zap.Int("objects", len(copied)),
	)
	return &Result{
		Objects: copied,
		Refs:    []RefUpdate{{Name: name, Old: old, New: tip}},
	}, nil
}

type objectWriter interface {
	Has(h object.Hash) bool
	Write(objType object.ObjectType, data []byte) (object.Hash, error)
}

// copyObjects copies every hash in set that dst lacks, verifying content
// against its hash. Cancellation is checked between objects.
func copyObjects(ctx context.Context, src object.Reader, dst objectWriter, set map[object.Hash]struct{}) ([]object.Hash, error) {
	hashes := make([]object.Hash, 0, len(set))
	for h := range set {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	var copied []object.Hash
	for _, h := range hashes {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		if dst.Has(h) {
			continue
		}
		objType, data, err := src.Read(h)
		if err != nil {
			return copied, fmt.Errorf("read object %s: %w", h, err)
		}
		if computed := object.HashObject(objType, data); computed != h {
			return copied, fmt.Errorf("object hash mismatch: expected %s, got %s", h, computed)
		}
		if _, err := dst.Write(objType, data); err != nil {
			return copied, fmt.Errorf("write object %s: %w", h, err)
		}
		copied = append(copied, h)
	}
	return copied, nil
}
