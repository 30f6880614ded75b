// ABOUTME: Root Cobra command and global flags for the flasker CLI.
// ABOUTME: Sets up lifecycle hooks for config loading, logging, and the API client.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/flasker/internal/api"
	"github.com/2389-research/flasker/internal/config"
	"github.com/2389-research/flasker/internal/logging"
	"github.com/2389-research/flasker/internal/session"
)

var globalConfig *config.Config
var globalLog *logging.Logger
var globalSession *session.CookieStore
var globalClient *api.Client

var flagAPIURL string

// skipsClient lists commands that run without an API client.
var skipsClient = map[string]bool{
	"help":      true,
	"version":   true,
	"setup":     true,
	"devserver": true,
}

var rootCmd = &cobra.Command{
	Use:   "flasker",
	Short: "Terminal client for a Flasker blog",
	Long: `
███████╗██╗      █████╗ ███████╗██╗  ██╗███████╗██████╗
██╔════╝██║     ██╔══██╗██╔════╝██║ ██╔╝██╔════╝██╔══██╗
█████╗  ██║     ███████║███████╗█████╔╝ █████╗  ██████╔╝
██╔══╝  ██║     ██╔══██║╚════██║██╔═██╗ ██╔══╝  ██╔══██╗
██║     ███████╗██║  ██║███████║██║  ██╗███████╗██║  ██║
╚═╝     ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝

Read, write, and comment on posts from a Flasker blog API.
Run without a subcommand to open the interactive client.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsClient[cmd.Name()] {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg
		baseURL := cfg.BaseURL()
		if flagAPIURL != "" {
			baseURL = config.NormalizeURL(flagAPIURL)
		}

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logPath, err := cfg.LogFile()
		if err != nil {
			return fmt.Errorf("failed to resolve log file: %w", err)
		}
		logger, err := logging.Open(logPath, level)
		if err != nil {
			return err
		}
		globalLog = logger

		timeout, err := cfg.RequestTimeout()
		if err != nil {
			return err
		}
		store, err := session.NewCookieStore(baseURL)
		if err != nil {
			return fmt.Errorf("failed to set up session: %w", err)
		}
		globalSession = store
		globalClient = api.NewClient(baseURL,
			api.WithJar(store.Jar()),
			api.WithTimeout(timeout),
			api.WithLogger(logger),
		)

		logger.Debugf("Using API at %s", baseURL)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalLog != nil {
			_ = globalLog.Close()
			globalLog = nil
		}
		return nil
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api", "", "Flasker API origin (overrides config and FLASKER_API_URL)")
}
