package repo

import (
	"strings"

	"github.com/odvcencio/twig/pkg/refs"
)

// ReadReflog returns the reflog of a ref, newest first. An empty name or
// HEAD reads the log of the branch HEAD points at, or HEAD's own log when
// detached. Short names are taken as branches.
func (r *Repo) ReadReflog(name string, limit int) ([]refs.ReflogEntry, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "" || name == refs.HEAD:
		res, err := r.Refs.Resolve(refs.HEAD, true)
		if err != nil {
			return nil, err
		}
		name = res.Name
	case !strings.HasPrefix(name, "refs/") && name != refs.MergeHead:
		name = refs.BranchPrefix + name
	}
	return r.Refs.ReadReflog(name, limit)
}
