package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"lumen/internal/app"
)

// RunBoard shows the dashboard until the user quits. Due reminders fire while it is open.
func RunBoard(ctx context.Context, a *app.App, out io.Writer) error {
	m := newBoardModel(ctx, a)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
