// Package ui hosts the interactive terminal frontend and the live
// progress display used by the non-interactive commands.
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ketan18710/clean-my-mac/internal/config"
	"github.com/ketan18710/clean-my-mac/internal/platform"
	"github.com/ketan18710/clean-my-mac/internal/spotlight"
	"github.com/ketan18710/clean-my-mac/internal/ui/models"
)

// RunInteractive starts the interactive TUI mode
func RunInteractive(cfg *config.Config, logger *zap.Logger) error {
	platformInfo, err := platform.GetInfo()
	if err != nil {
		return fmt.Errorf("failed to get platform info: %w", err)
	}

	if !platform.SupportsSpotlight() {
		return fmt.Errorf("this tool relies on Spotlight and only runs on macOS")
	}
	if !spotlight.Available() {
		return fmt.Errorf("mdfind not found in PATH; is Spotlight available on this machine?")
	}

	m, err := models.NewAppModel(cfg, platformInfo, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running interactive mode: %w", err)
	}

	return nil
}
