package tui

import (
	"context"
	"time"

	"chathistory/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type refreshTickMsg struct{}

type refreshResultMsg struct {
	rs  model.ResultSet
	err error
}

// tickRefresh schedules the next poll. The following tick is only scheduled once the
// poll's result has been applied, so refresh queries never overlap.
func tickRefresh(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

// refreshCmd re-runs the query with the current sort state.
func (m appModel) refreshCmd() tea.Cmd {
	st, timeout := m.store, m.opts.QueryTimeout
	col, desc := m.vs.SortColumn, m.vs.SortDescending
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rs, err := st.Query(ctx, col, desc)
		return refreshResultMsg{rs: rs, err: err}
	}
}

// applyRefresh swaps in a changed result and reports whether a redraw was requested.
// Selection and overlay state are kept; the selection is only clamped if rows went away.
func (m *appModel) applyRefresh(msg refreshResultMsg) bool {
	if msg.err != nil {
		// Retried on the next tick.
		m.log.Warn("refresh query failed", "err", msg.err)
		return false
	}
	if msg.rs.Equal(m.rows) {
		return false
	}
	m.rows = msg.rs
	m.vs.ClampSelection(m.rows.Len())
	m.invalidate()
	m.log.Debug("refresh applied", "rows", m.rows.Len())
	return true
}
