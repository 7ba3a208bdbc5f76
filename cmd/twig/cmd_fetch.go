package main

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/remote"
	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <remote>",
		Short: "Copy remote branches into refs/remote/*",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			t, err := openRemote(r, args[0])
			if err != nil {
				return err
			}

			res, err := remote.Fetch(cmd.Context(), r, t, remote.WithLogger(logger))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, u := range res.Refs {
				printRefUpdate(out, u)
			}
			fmt.Fprintf(out, "fetched %d objects from %s\n", len(res.Objects), t)
			return nil
		},
	}
}
