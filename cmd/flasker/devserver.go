// ABOUTME: Runs the in-memory development API so the client can be tried without a Flasker backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/flasker/internal/devapi"
	"github.com/2389-research/flasker/internal/logging"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run an in-memory Flasker API for development",
	Long: `Serve the Flasker REST API from memory. Data is lost when the server stops.

With --seed, the users ada/lovelace and grace/hopper are created with a
post and a comment each.`,
	RunE: runDevserver,
}

// Flags
var (
	devAddr    string
	devSeed    bool
	devVerbose bool
)

func init() {
	rootCmd.AddCommand(devserverCmd)

	devserverCmd.Flags().StringVar(&devAddr, "addr", "127.0.0.1:5000", "Listen address")
	devserverCmd.Flags().BoolVar(&devSeed, "seed", false, "Load demo users, posts, and comments")
	devserverCmd.Flags().BoolVar(&devVerbose, "verbose", false, "Log debug output")
}

func runDevserver(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level := logging.LevelInfo
	if devVerbose {
		level = logging.LevelDebug
	}
	logger := logging.New(os.Stderr, level)

	srv := devapi.New(devapi.WithLogger(logger))
	if devSeed {
		if err := srv.Seed(); err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}
	}

	httpServer := &http.Server{
		Addr:              devAddr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on http://%s", devAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	logger.Infof("Shutting down")
	return httpServer.Shutdown(shutdownCtx)
}
