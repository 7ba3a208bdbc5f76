package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGCCmd() *cobra.Command {
	var dryRun bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Remove objects unreachable from refs and reflogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			sum, err := r.GC(dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if verbose {
				for _, h := range sum.Pruned {
					fmt.Fprintln(out, h)
				}
			}
			verb := "pruned"
			if dryRun {
				verb = "would prune"
			}
			fmt.Fprintf(out, "%s %d objects, kept %d\n", verb, len(sum.Pruned), sum.Reachable)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report without deleting")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list pruned hashes")

	return cmd
}
