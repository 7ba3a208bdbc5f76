package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := Init(t.TempDir())
	require.NoError(t, err)
	return r
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// commitGraph writes commits with an empty tree; parents are given by name
// and must be created first.
func commitGraph(t *testing.T, r *Repo, edges [][2]string) map[string]object.Hash {
	t.Helper()
	empty, err := r.Objects.WriteTree(&object.TreeObj{})
	require.NoError(t, err)

	out := make(map[string]object.Hash)
	parents := make(map[string][]string)
	var order []string
	for _, e := range edges {
		name, parent := e[0], e[1]
		if _, ok := parents[name]; !ok {
			order = append(order, name)
			parents[name] = nil
		}
		if parent != "" {
			parents[name] = append(parents[name], parent)
		}
	}
	for _, name := range order {
		c := &object.CommitObj{TreeHash: empty, Message: name}
		for _, p := range parents[name] {
			h, ok := out[p]
			require.True(t, ok, "parent %s of %s not created yet", p, name)
			c.Parents = append(c.Parents, h)
		}
		h, err := r.Objects.WriteCommit(c)
		require.NoError(t, err)
		out[name] = h
	}
	return out
}
