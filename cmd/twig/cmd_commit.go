package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the working directory as a new commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := openRepo()
			if err != nil {
				return err
			}

			h, err := r.Commit(message)
			if err != nil {
				return err
			}

			branch, _ := r.CurrentBranch()
			if branch == "" {
				branch = "detached HEAD"
			}
			subject, _, _ := strings.Cut(message, "\n")
			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", branch, h.Short(), subject)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")

	return cmd
}
