package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/odvcencio/twig/pkg/logging"
	"github.com/odvcencio/twig/pkg/repo"
	"github.com/spf13/cobra"
)

const version = "0.1.0-dev"

// logger is replaced by the root command's pre-run hook.
var logger = logging.Nop()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	var logJSON bool
	var noColor bool

	root := &cobra.Command{
		Use:           "twig",
		Short:         "A small content-addressed version control system",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			l, err := logging.New(logLevel, logJSON)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit JSON log lines")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newHashObjectCmd())
	root.AddCommand(newCatFileCmd())
	root.AddCommand(newWriteTreeCmd())
	root.AddCommand(newReadTreeCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newBranchCmd())
	root.AddCommand(newTagCmd())
	root.AddCommand(newResetCmd())
	root.AddCommand(newMergeBaseCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newRemoteCmd())
	root.AddCommand(newFetchCmd())
	root.AddCommand(newPushCmd())
	root.AddCommand(newReflogCmd())
	root.AddCommand(newGCCmd())
	root.AddCommand(newGraphCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "twig %s\n", version)
		},
	}
}

func openRepo() (*repo.Repo, error) {
	return repo.Open(".", repo.WithLogger(logger))
}
