package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	var newBranch bool

	cmd := &cobra.Command{
		Use:   "checkout <revision>",
		Short: "Replace the working directory with a commit and move HEAD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			name := args[0]
			if newBranch {
				head, err := r.Head()
				if err != nil {
					return err
				}
				if head == "" {
					return fmt.Errorf("cannot create branch %q: no commits yet", name)
				}
				if err := r.CreateBranch(name, head); err != nil {
					return err
				}
			}

			if err := r.Checkout(name); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if branch, _ := r.CurrentBranch(); branch != "" {
				fmt.Fprintf(out, "switched to branch '%s'\n", branch)
				return nil
			}
			head, err := r.Head()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "HEAD is now at %s (detached)\n", head.Short())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&newBranch, "branch", "b", false, "create the branch at HEAD before switching")

	return cmd
}
