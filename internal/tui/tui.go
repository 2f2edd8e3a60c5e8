package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the browser on st. The initial query must succeed; later store
// failures are logged and retried. Cancelling ctx stops the program.
func Run(ctx context.Context, st RecordStore, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m, err := newAppModel(ctx, st, opts)
	if err != nil {
		return err
	}
	_, err = newProgram(ctx, m).Run()
	return err
}

func newProgram(ctx context.Context, m appModel, extra ...tea.ProgramOption) *tea.Program {
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, extra...)
	return tea.NewProgram(m, opts...)
}
