package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/pb33f/dialpick/tui"
)

// LaunchTUI runs the picker full screen until the user quits.
func LaunchTUI(model *tui.PickerModel) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	finalModel, err := p.Run()

	// in-flight lookups are cancelled whatever the outcome
	if m, ok := finalModel.(*tui.PickerModel); ok {
		m.Dispose()
	} else {
		model.Dispose()
	}

	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
