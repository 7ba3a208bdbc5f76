package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
	"go.uber.org/zap"
)

// GCSummary reports the outcome of a garbage collection.
type GCSummary struct {
	Reachable int
	Pruned    []object.Hash // sorted
	DryRun    bool
}

// GC removes stored objects that are not reachable from any ref or from any
// hash recorded in a live ref's reflog. A ref may point at any object kind:
// commits keep their history, trees their contents, blobs themselves. Snapshots written by WorkingTree
// that were never committed are among what gets removed. With dryRun set
// nothing is deleted and Pruned lists what would be.
func (r *Repo) GC(dryRun bool) (*GCSummary, error) {
	roots, err := r.gcRoots()
	if err != nil {
		return nil, fmt.Errorf("gc: %w", err)
	}
	reachable, err := r.reachableFrom(roots)
	if err != nil {
		return nil, fmt.Errorf("gc: %w", err)
	}
	all, err := r.Objects.All()
	if err != nil {
		return nil, fmt.Errorf("gc: %w", err)
	}

	sum := &GCSummary{Reachable: len(reachable), DryRun: dryRun}
	for _, h := range all {
		if _, ok := reachable[h]; ok {
			continue
		}
		if !dryRun {
			if err := r.Objects.Remove(h); err != nil {
				return nil, fmt.Errorf("gc: %w", err)
			}
		}
		sum.Pruned = append(sum.Pruned, h)
	}

	r.log.Info("gc finished",
		zap.Int("reachable", sum.Reachable),
		zap.Int("pruned", len(sum.Pruned)),
		zap.Bool("dry_run", dryRun),
	)
	return sum, nil
}

// reachableFrom expands roots of any object kind into the set of objects
// they keep alive.
func (r *Repo) reachableFrom(roots []object.Hash) (map[object.Hash]struct{}, error) {
	var commits []object.Hash
	out := make(map[object.Hash]struct{})
	for _, h := range roots {
		objType, _, err := r.Objects.Read(h)
		if err != nil {
			return nil, err
		}
		switch objType {
		case object.TypeCommit:
			commits = append(commits, h)
		case object.TypeTree:
			if err := r.history.collectTree(h, out); err != nil {
				return nil, err
			}
		default:
			out[h] = struct{}{}
		}
	}
	fromCommits, err := r.history.ReachableObjects(commits...)
	if err != nil {
		return nil, err
	}
	for h := range fromCommits {
		out[h] = struct{}{}
	}
	return out, nil
}

// gcRoots collects ref values and reflog hashes, sorted, dropping anything
// that is not stored.
func (r *Repo) gcRoots() ([]object.Hash, error) {
	all, err := r.Refs.List("", false)
	if err != nil {
		return nil, err
	}

	set := make(map[object.Hash]struct{})
	names := []string{refs.HEAD}
	for _, ref := range all {
		if ref.Value.Kind == refs.KindDirect {
			set[ref.Value.Hash] = struct{}{}
		}
		if ref.Name != refs.HEAD {
			names = append(names, ref.Name)
		}
	}
	for _, name := range names {
		entries, err := r.Refs.ReadReflog(name, 0)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			set[e.NewHash] = struct{}{}
			if e.OldHash != "" {
				set[e.OldHash] = struct{}{}
			}
		}
	}

	roots := make([]object.Hash, 0, len(set))
	for h := range set {
		if !r.Objects.Has(h) {
			r.log.Debug("gc root skipped", zap.String("hash", string(h)))
			continue
		}
		roots = append(roots, h)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	return roots, nil
}
