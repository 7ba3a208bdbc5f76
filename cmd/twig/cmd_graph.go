package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print refs and the commits they reach as a Graphviz digraph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			return writeGraph(cmd.OutOrStdout(), r)
		},
	}
}

func writeGraph(out io.Writer, r *repo.Repo) error {
	all, err := r.Refs.List("", false)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "digraph commits {")
	var tips []object.Hash
	for _, ref := range all {
		fmt.Fprintf(out, "  %q [shape=note];\n", ref.Name)
		switch ref.Value.Kind {
		case refs.KindSymbolic:
			fmt.Fprintf(out, "  %q -> %q;\n", ref.Name, ref.Value.Target)
		case refs.KindDirect:
			fmt.Fprintf(out, "  %q -> %q;\n", ref.Name, ref.Value.Hash)
			tips = append(tips, ref.Value.Hash)
		}
	}
	sort.Slice(tips, func(i, j int) bool { return tips[i] < tips[j] })

	w := r.History().Walk(tips...)
	for w.Next() {
		h := w.Hash()
		fmt.Fprintf(out, "  %q [shape=box style=filled label=%q];\n", h, h.Short())
		for _, p := range w.Commit().Parents {
			fmt.Fprintf(out, "  %q -> %q;\n", h, p)
		}
	}
	if err := w.Err(); err != nil {
		return err
	}
	fmt.Fprintln(out, "}")
	return nil
}
