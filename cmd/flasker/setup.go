// ABOUTME: Cobra command for interactive API setup.
// ABOUTME: Launches a bubbletea TUI wizard to collect and validate the API origin and refresh interval.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/flasker/internal/config"
	"github.com/2389-research/flasker/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Point flasker at a Flasker API",
	Long:  "Interactive wizard to configure the API origin and how often the post list refreshes.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(cfg.API.BaseURL, cfg.Poll.HomeInterval)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	apiURL, homeInterval := final.Result()
	cfg.API.BaseURL = apiURL
	cfg.Poll.HomeInterval = homeInterval

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Println("Config saved successfully.")
	} else {
		fmt.Printf("Config saved to %s\n", configPath)
	}
	return nil
}
