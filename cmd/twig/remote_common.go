package main

import (
	"path/filepath"

	"github.com/odvcencio/twig/pkg/remote"
	"github.com/odvcencio/twig/pkg/repo"
)

// openRemote maps a configured remote name or a literal path to a
// transport. Relative literal paths are taken from the current directory.
func openRemote(r *repo.Repo, nameOrPath string) (*remote.FileTransport, error) {
	path, err := r.RemotePath(nameOrPath)
	if err != nil {
		return nil, err
	}
	if path, err = filepath.Abs(path); err != nil {
		return nil, err
	}
	return remote.OpenFile(path, logger)
}
