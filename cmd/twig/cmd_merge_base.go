package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMergeBaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge-base <a> <b>",
		Short: "Print the nearest common ancestor of two commits",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			a, err := r.ResolveName(args[0])
			if err != nil {
				return err
			}
			b, err := r.ResolveName(args[1])
			if err != nil {
				return err
			}

			base, err := r.History().MergeBase(a, b)
			if err != nil {
				return err
			}
			if base == "" {
				return fmt.Errorf("%s and %s share no history", args[0], args[1])
			}
			fmt.Fprintln(cmd.OutOrStdout(), base)
			return nil
		},
	}
}
