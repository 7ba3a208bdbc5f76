package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/odvcencio/twig/pkg/diff"
	"github.com/odvcencio/twig/pkg/object"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var nameStatus bool

	cmd := &cobra.Command{
		Use:   "diff [from [to]]",
		Short: "Show changes between commits or against the working directory",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			from := object.Hash("")
			if len(args) > 0 {
				if from, err = r.ResolveName(args[0]); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()

			// Working directory against one commit (HEAD by default).
			if len(args) < 2 && !nameStatus {
				patch, err := r.DiffWorking(from)
				if err != nil {
					return err
				}
				printColoredDiff(out, patch)
				return nil
			}

			if from == "" {
				if from, err = r.Head(); err != nil {
					return err
				}
			}
			fromTree, err := r.CommitTree(from)
			if err != nil {
				return err
			}
			var toTree map[string]object.Hash
			if len(args) == 2 {
				to, err := r.ResolveName(args[1])
				if err != nil {
					return err
				}
				if toTree, err = r.CommitTree(to); err != nil {
					return err
				}
			} else if toTree, err = r.WorkingTree(); err != nil {
				return err
			}

			if nameStatus {
				for _, c := range diff.ChangedFiles(fromTree, toTree) {
					fmt.Fprintf(out, "%s\t%s\n", strings.ToUpper(c.Kind.String()[:1]), c.Path)
				}
				return nil
			}

			patch, err := diff.DiffTrees(r.Objects, fromTree, toTree)
			if err != nil {
				return err
			}
			printColoredDiff(out, patch)
			return nil
		},
	}

	cmd.Flags().BoolVar(&nameStatus, "name-status", false, "list changed paths with A/D/M")

	return cmd
}

// printColoredDiff writes a unified diff with hunk headers in cyan,
// additions in green and removals in red.
func printColoredDiff(out io.Writer, patch []byte) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	header := color.New(color.FgCyan)
	bold := color.New(color.Bold)

	text := strings.TrimSuffix(string(patch), "\n")
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			bold.Fprintln(out, line)
		case strings.HasPrefix(line, "@@"):
			header.Fprintln(out, line)
		case strings.HasPrefix(line, "+"):
			added.Fprintln(out, line)
		case strings.HasPrefix(line, "-"):
			removed.Fprintln(out, line)
		default:
			fmt.Fprintln(out, line)
		}
	}
}
