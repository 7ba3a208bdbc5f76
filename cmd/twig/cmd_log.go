package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/refs"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log [revision...]",
		Short: "Show commit history",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			var seeds []object.Hash
			if len(args) == 0 {
				head, err := r.Head()
				if err != nil {
					return err
				}
				if head == "" {
					return fmt.Errorf("no commits yet")
				}
				seeds = append(seeds, head)
			}
			for _, arg := range args {
				h, err := r.ResolveName(arg)
				if err != nil {
					return err
				}
				seeds = append(seeds, h)
			}

			decorations, err := r.Decorations()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := r.History().Walk(seeds...)
			for n := 0; (limit <= 0 || n < limit) && w.Next(); n++ {
				printLogEntry(out, w.Hash(), w.Commit(), decorations[w.Hash()], oneline)
			}
			return w.Err()
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "one line per commit")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum commits to show (0 means all)")

	return cmd
}

func printLogEntry(out io.Writer, h object.Hash, c *object.CommitObj, names []string, oneline bool) {
	yellow := color.New(color.FgYellow).SprintFunc()
	decoration := formatDecoration(names)

	if oneline {
		subject, _, _ := strings.Cut(c.Message, "\n")
		if decoration != "" {
			fmt.Fprintf(out, "%s %s %s\n", yellow(h.Short()), decoration, subject)
		} else {
			fmt.Fprintf(out, "%s %s\n", yellow(h.Short()), subject)
		}
		return
	}

	if decoration != "" {
		fmt.Fprintf(out, "%s %s\n", yellow("commit "+string(h)), decoration)
	} else {
		fmt.Fprintln(out, yellow("commit "+string(h)))
	}
	if len(c.Parents) > 1 {
		short := make([]string, len(c.Parents))
		for i, p := range c.Parents {
			short[i] = p.Short()
		}
		fmt.Fprintf(out, "Merge: %s\n", strings.Join(short, " "))
	}
	fmt.Fprintln(out)
	for _, line := range strings.Split(strings.TrimRight(c.Message, "\n"), "\n") {
		fmt.Fprintf(out, "    %s\n", line)
	}
	fmt.Fprintln(out)
}

// formatDecoration renders ref names as "(HEAD, master, tag: v1)".
func formatDecoration(names []string) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, 0, len(names))
	for _, n := range names {
		switch {
		case strings.HasPrefix(n, refs.BranchPrefix):
			n = strings.TrimPrefix(n, refs.BranchPrefix)
		case strings.HasPrefix(n, refs.TagPrefix):
			n = "tag: " + strings.TrimPrefix(n, refs.TagPrefix)
		case strings.HasPrefix(n, refs.RemotePrefix):
			n = strings.TrimPrefix(n, "refs/")
		}
		parts = append(parts, n)
	}
	return color.New(color.FgCyan).Sprint("(" + strings.Join(parts, ", ") + ")")
}
