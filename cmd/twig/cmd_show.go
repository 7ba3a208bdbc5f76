package main

import (
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [revision]",
		Short: "Show a commit and the changes it introduced",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			name := "HEAD"
			if len(args) == 1 {
				name = args[0]
			}
			h, err := r.ResolveName(name)
			if err != nil {
				return err
			}
			c, err := r.History().Commit(h)
			if err != nil {
				return err
			}
			decorations, err := r.Decorations()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printLogEntry(out, h, c, decorations[h], false)

			patch, err := r.DiffCommit(h)
			if err != nil {
				return err
			}
			printColoredDiff(out, patch)
			return nil
		},
	}
}
