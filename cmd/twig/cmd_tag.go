package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	var deleteTag string
	var force bool
	var showHash bool

	cmd := &cobra.Command{
		Use:   "tag [name] [target]",
		Short: "List, create, or delete lightweight tags",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			if strings.TrimSpace(deleteTag) != "" {
				if len(args) > 0 {
					return fmt.Errorf("tag --delete does not accept positional args")
				}
				return r.DeleteTag(deleteTag)
			}

			if len(args) == 0 {
				tags, err := r.ListTags()
				if err != nil {
					return err
				}
				for _, t := range tags {
					if showHash {
						fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", t.Hash, t.Name)
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), t.Name)
					}
				}
				return nil
			}

			target := "HEAD"
			if len(args) == 2 {
				target = strings.TrimSpace(args[1])
			}
			h, err := r.ResolveName(target)
			if err != nil {
				return fmt.Errorf("cannot resolve %s: %w", target, err)
			}
			return r.CreateTag(args[0], h, force)
		},
	}

	cmd.Flags().StringVarP(&deleteTag, "delete", "d", "", "delete the named tag")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing tag")
	cmd.Flags().BoolVar(&showHash, "hash", false, "show the hash each tag points at")

	return cmd
}
