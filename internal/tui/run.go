package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the dashboard until the user quits or ctx is cancelled. The
// view is attached before the program starts; the first View calls wait
// for the event loop.
func Run(ctx context.Context, ctrl Controller, opts Options) error {
	p := tea.NewProgram(
		NewModel(ctrl, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	ctrl.Attach(NewProgramView(p))

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
