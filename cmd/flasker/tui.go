// ABOUTME: Interactive client command: the default when flasker runs without a subcommand.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389-research/flasker/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive client",
	Long:  "Browse posts, log in, write posts and comments, and edit your own content.",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	homeInterval, err := globalConfig.HomeInterval()
	if err != nil {
		return err
	}
	postInterval, err := globalConfig.PostInterval()
	if err != nil {
		return err
	}

	globalLog.Infof("Starting interactive client")
	return tui.Run(ctx, tui.Options{
		Session:      globalSession,
		API:          globalClient,
		Log:          globalLog,
		HomeInterval: homeInterval,
		PostInterval: postInterval,
	})
}
