package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	var write bool
	var objType string

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Compute an object hash, optionally storing the object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := object.ObjectType(objType)
			if !t.Valid() {
				return fmt.Errorf("unknown object type %q", objType)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			h := object.HashObject(t, data)
			if write {
				r, err := openRepo()
				if err != nil {
					return err
				}
				if h, err = r.Objects.Write(t, data); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "store the object")
	cmd.Flags().StringVarP(&objType, "type", "t", string(object.TypeBlob), "object type")

	return cmd
}
