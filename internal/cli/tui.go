package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/existflow/issuegantt/internal/logger"
	"github.com/existflow/issuegantt/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the schedule interactively",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("Launching TUI")
	m := tui.NewModel(a.projector, a.syncer, a.sortKey)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", logger.Err(err))
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	logger.Info("TUI exited normally")
	return nil
}
