package main

import (
	"fmt"
	"io"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	var showType bool

	cmd := &cobra.Command{
		Use:   "cat-file <object>",
		Short: "Print the content or type of an object",
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

			out := cmd.OutOrStdout()
			if showType {
				fmt.Fprintln(out, objType)
				return nil
			}
			if objType == object.TypeTree {
				tr, err := object.UnmarshalTree(data)
				if err != nil {
					return err
				}
				printTree(out, tr)
				return nil
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object type only")

	return cmd
}

func printTree(out io.Writer, tr *object.TreeObj) {
	for _, e := range tr.Entries {
		fmt.Fprintf(out, "%s %s\t%s\n", e.Kind, e.Hash, e.Name)
	}
}
