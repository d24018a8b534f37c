// ABOUTME: Cobra command for interactive storage setup.
// ABOUTME: Launches a bubbletea TUI wizard to choose and validate the backend, then saves config.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/daily/internal/config"
	"github.com/2389-research/daily/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose where entries are stored",
	Long:  "Interactive wizard to pick the file or sqlite backend, its location, and your editor.",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Setup must still run when the saved config is invalid.
	cfg, err := config.Load()
	if err != nil {
		renderWarnings(out, []string{fmt.Sprintf("Ignoring current config: %v", err)})
		cfg = config.Default()
	}

	p := tea.NewProgram(tui.NewSetupModel(cfg))
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Fprintln(out, "Setup cancelled.")
		return nil
	}

	if err := final.Result().Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Fprintln(out, "Config saved successfully.")
	} else {
		fmt.Fprintf(out, "Config saved to %s\n", configPath)
	}
	return nil
}
