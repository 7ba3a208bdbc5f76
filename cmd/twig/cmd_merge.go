package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <revision>",
		Short: "Merge a commit into the working directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			other, err := r.ResolveName(args[0])
			if err != nil {
				return err
			}

			res, err := r.Merge(other)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Base == "" {
				fmt.Fprintln(out, "no common ancestor; merged against an empty base")
			} else {
				fmt.Fprintf(out, "merge base %s\n", res.Base.Short())
			}
			if len(res.Conflicts) > 0 {
				for _, p := range res.Conflicts {
					fmt.Fprintf(out, "CONFLICT (content): %s\n", p)
				}
				return fmt.Errorf("automatic merge failed; fix conflicts and then commit the result")
			}
			fmt.Fprintln(out, "merged into working directory; commit to conclude")
			return nil
		},
	}
}
