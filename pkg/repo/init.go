package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/twig/pkg/refs"
	"go.uber.org/zap"
)

// Init creates the .twig/ structure at path (objects/, refs/heads/,
// refs/tags/, config.toml and HEAD) and opens the repository. Running Init
// on an existing repository is a no-op: objects, refs, config and HEAD are
// left untouched.
func Init(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	dir := filepath.Join(abs, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir %s: %w", dir, err)
	}

	if _, err := os.Stat(filepath.Join(dir, configFileName)); errors.Is(err, os.ErrNotExist) {
		if err := writeConfigFile(dir, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
	}

	r, err := newRepo(abs, opts...)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.Objects.Init(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.Refs.Init(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	head, err := r.Refs.Resolve(refs.HEAD, false)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if !head.Value.IsSet() {
		cfg, err := r.ReadConfig()
		if err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
		branch := refs.BranchPrefix + cfg.Core.DefaultBranch
		if err := r.Refs.Update(refs.HEAD, refs.Symbolic(branch), false); err != nil {
			return nil, fmt.Errorf("init: write HEAD: %w", err)
		}
		r.log.Info("initialized repository", zap.String("dir", dir), zap.String("branch", branch))
	}
	return r, nil
}

// Open searches upward from path for a .twig/ directory and opens the
// repository. Returns ErrNotRepository if none is found.
func Open(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, DirName))
		if err == nil && info.IsDir() {
			return newRepo(cur, opts...)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w (or any parent up to /)", abs, ErrNotRepository)
		}
		cur = parent
	}
}
