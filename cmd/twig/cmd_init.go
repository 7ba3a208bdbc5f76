package main

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			r, err := repo.Init(path, repo.WithLogger(logger))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized twig repository in %s\n", r.Dir)
			return nil
		},
	}
}
