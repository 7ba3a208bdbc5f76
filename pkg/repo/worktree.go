package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/odvcencio/twig/pkg/object"
	"go.uber.org/zap"
)

// WriteTree snapshots dir recursively into stored tree and blob objects and
// returns the root tree hash. Ignored entries are skipped. Regular files
// become blobs and directories become subtrees; symbolic links and other
// special files are skipped without being followed.
func (r *Repo) WriteTree(dir string) (object.Hash, error) {
	return r.writeTree(dir, "")
}

func (r *Repo) writeTree(dir, rel string) (object.Hash, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}

	tr := &object.TreeObj{}
	for _, e := range entries {
		relPath := e.Name()
		if rel != "" {
			relPath = rel + "/" + e.Name()
		}
		if r.ignore.IsIgnored(relPath) {
			continue
		}
		full := filepath.Join(dir, e.Name())

		switch {
		case e.Type().IsRegular():
			data, err := os.ReadFile(full)
			if err != nil {
				return "", fmt.Errorf("write tree: %w", err)
			}
			h, err := r.Objects.WriteBlob(&object.Blob{Data: data})
			if err != nil {
				return "", fmt.Errorf("write tree: blob %s: %w", relPath, err)
			}
			tr.Entries = append(tr.Entries, object.TreeEntry{Kind: object.TypeBlob, Hash: h, Name: e.Name()})
		case e.IsDir():
			h, err := r.writeTree(full, relPath)
			if err != nil {
				return "", err
			}
			tr.Entries = append(tr.Entries, object.TreeEntry{Kind: object.TypeTree, Hash: h, Name: e.Name()})
		default:
			r.log.Debug("skipping non-regular file", zap.String("path", relPath), zap.Stringer("mode", e.Type()))
		}
	}

	h, err := r.Objects.WriteTree(tr)
	if err != nil {
		return "", fmt.Errorf("write tree %s: %w", dir, err)
	}
	return h, nil
}

// WorkingTree snapshots the working directory as a flattened path to blob
// hash map. File contents are stored as blobs so the result can be diffed
// like any committed tree.
func (r *Repo) WorkingTree() (map[string]object.Hash, error) {
	h, err := r.WriteTree(r.RootDir)
	if err != nil {
		return nil, err
	}
	return r.Objects.FlattenTree(h)
}

// Materialize replaces the non-ignored content of dir with the tree h.
func (r *Repo) Materialize(h object.Hash, dir string) error {
	files, err := r.Objects.FlattenTree(h)
	if err != nil {
		return fmt.Errorf("materialize %s: %w", h, err)
	}
	contents := make(map[string][]byte, len(files))
	for p, blobHash := range files {
		b, err := r.Objects.ReadBlob(blobHash)
		if err != nil {
			return fmt.Errorf("materialize %s: %s: %w", h, p, err)
		}
		contents[p] = b.Data
	}
	return r.replaceContents(dir, contents)
}

// replaceContents clears dir and writes the given relative paths.
func (r *Repo) replaceContents(dir string, files map[string][]byte) error {
	if err := r.clearDir(dir); err != nil {
		return err
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("materialize: mkdir for %s: %w", p, err)
		}
		if err := os.WriteFile(full, files[p], 0o644); err != nil {
			return fmt.Errorf("materialize: write %s: %w", p, err)
		}
	}
	r.log.Debug("materialized working tree", zap.String("dir", dir), zap.Int("files", len(paths)))
	return nil
}

// clearDir removes every non-ignored file under dir, then every directory
// left empty. Directories still holding ignored content stay in place.
func (r *Repo) clearDir(dir string) error {
	var files, dirs []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if r.ignore.IsIgnored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		} else {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear %s: %w", dir, err)
	}

	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clear %s: %w", dir, err)
		}
	}
	// Deepest first; WalkDir yields parents before children.
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := os.Remove(dirs[i]); err != nil {
			r.log.Debug("keeping non-empty directory", zap.String("path", dirs[i]), zap.Error(err))
		}
	}
	return nil
}
