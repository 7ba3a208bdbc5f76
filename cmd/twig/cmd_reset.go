package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	var hard bool

	cmd := &cobra.Command{
		Use:   "reset <revision>",
		Short: "Move the current branch (or detached HEAD) to a commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			h, err := r.ResolveName(args[0])
			if err != nil {
				return err
			}
			if err := r.Reset(h); err != nil {
				return err
			}
			if hard {
				c, err := r.History().Commit(h)
				if err != nil {
					return err
				}
				if err := r.Materialize(c.TreeHash, r.RootDir); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s\n", h.Short())
			return nil
		},
	}

	cmd.Flags().BoolVar(&hard, "hard", false, "also replace the working directory")

	return cmd
}
