package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	var deleteBranch string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "branch [name [start]]",
		Short: "List, create, or delete branches",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			// Delete mode.
			if deleteBranch != "" {
				if len(args) > 0 {
					return fmt.Errorf("branch --delete does not accept positional args")
				}
				if err := r.DeleteBranch(deleteBranch); err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted branch '%s'\n", deleteBranch)
				return nil
			}

			// Create mode.
			if len(args) > 0 {
				start := "HEAD"
				if len(args) == 2 {
					start = args[1]
				}
				target, err := r.ResolveName(start)
				if err != nil {
					return fmt.Errorf("cannot resolve %s: %w", start, err)
				}
				return r.CreateBranch(args[0], target)
			}

			// List mode.
			branches, err := r.ListBranches()
			if err != nil {
				return err
			}
			current, _ := r.CurrentBranch()

			for _, b := range branches {
				marker := "  "
				if b.Name == current {
					marker = "* "
				}
				if verbose {
					fmt.Fprintf(out, "%s%s %s\n", marker, b.Name, b.Hash.Short())
				} else {
					fmt.Fprintf(out, "%s%s\n", marker, b.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deleteBranch, "delete", "d", "", "delete the named branch")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the commit each branch points at")

	return cmd
}
