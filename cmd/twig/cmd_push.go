package main

import (
	"fmt"
	"io"

	"github.com/odvcencio/twig/pkg/remote"
	"github.com/spf13/cobra"
)

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <remote> [branch]",
		Short: "Send a branch and its history to a remote",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			branch := ""
			if len(args) == 2 {
				branch = args[1]
			} else if branch, err = r.CurrentBranch(); err != nil {
				return err
			}
			if branch == "" {
				return fmt.Errorf("HEAD is detached; name the branch to push")
			}

			t, err := openRemote(r, args[0])
			if err != nil {
				return err
			}

			res, err := remote.Push(cmd.Context(), r, t, branch, remote.WithLogger(logger))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, u := range res.Refs {
				printRefUpdate(out, u)
			}
			fmt.Fprintf(out, "pushed %d objects to %s\n", len(res.Objects), t)
			return nil
		},
	}
}

func printRefUpdate(out io.Writer, u remote.RefUpdate) {
	switch {
	case u.Old == u.New:
		fmt.Fprintf(out, "  = %s %s\n", u.Name, u.New.Short())
	case u.Old == "":
		fmt.Fprintf(out, "  * %s %s (new)\n", u.Name, u.New.Short())
	default:
		fmt.Fprintf(out, "    %s %s..%s\n", u.Name, u.Old.Short(), u.New.Short())
	}
}
