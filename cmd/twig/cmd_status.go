package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/odvcencio/twig/pkg/diff"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			st, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case st.Branch == "":
				fmt.Fprintf(out, "HEAD detached at %s\n", st.Head.Short())
			case st.Head == "":
				fmt.Fprintf(out, "on %s (no commits yet)\n", st.Branch)
			default:
				fmt.Fprintf(out, "on %s\n", st.Branch)
			}
			if st.MergeHead != "" {
				fmt.Fprintf(out, "merging %s; commit to conclude\n", st.MergeHead.Short())
			}

			if len(st.Conflicts) > 0 {
				red := color.New(color.FgRed)
				fmt.Fprintln(out)
				fmt.Fprintln(out, "conflicts:")
				for _, p := range st.Conflicts {
					red.Fprintf(out, "  ! %s\n", p)
				}
			}

			if len(st.Changes) == 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "nothing to commit, working tree clean")
				return nil
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "changes:")
			for _, c := range st.Changes {
				switch c.Kind {
				case diff.Added:
					color.New(color.FgGreen).Fprintf(out, "  + %s\n", c.Path)
				case diff.Deleted:
					color.New(color.FgRed).Fprintf(out, "  - %s\n", c.Path)
				default:
					color.New(color.FgYellow).Fprintf(out, "  ~ %s\n", c.Path)
				}
			}
			return nil
		},
	}
}
