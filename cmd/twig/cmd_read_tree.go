package main

import (
	"github.com/odvcencio/twig/pkg/object"
	"github.com/spf13/cobra"
)

func newReadTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-tree <tree-ish>",
		Short: "Replace the working directory with a tree, leaving HEAD alone",
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
			objType, data, err := r.Objects.Read(h)
			if err != nil {
				return err
			}
			// A commit stands for its tree.
			if objType == object.TypeCommit {
				c, err := object.UnmarshalCommit(data)
				if err != nil {
					return err
				}
				h = c.TreeHash
			}
			return r.Materialize(h, r.RootDir)
		},
	}
}
