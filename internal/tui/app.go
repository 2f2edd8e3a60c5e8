package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"chathistory/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

// RecordStore is the browser's only I/O boundary.
type RecordStore interface {
	Query(ctx context.Context, orderBy string, descending bool) (model.ResultSet, error)
	Delete(ctx context.Context, rec model.Record) (bool, error)
}

type Options struct {
	// Refresh is the background polling interval (default 1s).
	Refresh time.Duration
	// QueryTimeout bounds each store call made from the event loop (default 5s).
	QueryTimeout time.Duration
	HeaderRule   HeaderRule
	// Markdown renders the overlay content as markdown.
	Markdown bool
	Logger   *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Refresh <= 0 {
		o.Refresh = time.Second
	}
	if o.QueryTimeout <= 0 {
		o.QueryTimeout = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

type sortResultMsg struct {
	rs  model.ResultSet
	err error
}

type deleteResultMsg struct {
	rec     model.Record
	deleted bool
	err     error
}

type appModel struct {
	store RecordStore
	opts  Options
	log   *slog.Logger
	keys  keyMap
	st    styles
	wrap  wrapFunc

	vs   ViewState
	rows model.ResultSet

	// frameSeq is bumped whenever the visible frame must be recomputed.
	frameSeq int
	frame    *frameCache
	lines    *wrapCache
}

type frameCache struct {
	seq           int
	width, height int
	out           string
	valid         bool
}

type wrapCache struct {
	text  string
	width int
	lines []string
	valid bool
}

// newAppModel runs the initial query; a store that can't answer it is fatal.
func newAppModel(ctx context.Context, st RecordStore, opts Options) (appModel, error) {
	if st == nil {
		return appModel{}, errors.New("nil record store")
	}
	opts = opts.withDefaults()
	m := appModel{
		store: st,
		opts:  opts,
		log:   opts.Logger,
		keys:  defaultKeyMap(),
		st:    newStyles(),
		wrap:  wrapPlain,
		vs:    NewViewState(),
		frame: &frameCache{},
		lines: &wrapCache{},
	}
	if opts.Markdown {
		m.wrap = wrapMarkdown
	}

	qctx, cancel := context.WithTimeout(ctx, opts.QueryTimeout)
	defer cancel()
	rs, err := st.Query(qctx, m.vs.SortColumn, m.vs.SortDescending)
	if err != nil {
		return appModel{}, err
	}
	m.rows = rs
	m.log.Info("initial query", "rows", rs.Len(), "columns", len(rs.Columns))
	return m, nil
}

func (m appModel) Init() tea.Cmd { return tickRefresh(m.opts.Refresh) }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vs.Resize(msg.Height, msg.Width)
		m.vs.ClampOverlay(m.overlayLineCount())
		m.vs.FollowSelection()
		m.invalidate()
		return m, nil

	case tea.KeyMsg:
		return m.dispatch(m.keys.eventFor(msg))

	case refreshTickMsg:
		return m, m.refreshCmd()

	case refreshResultMsg:
		m.applyRefresh(msg)
		return m, tickRefresh(m.opts.Refresh)

	case sortResultMsg:
		if msg.err != nil {
			m.log.Error("sort query failed", "column", m.vs.SortColumn, "descending", m.vs.SortDescending, "err", msg.err)
			return m, nil
		}
		m.rows = msg.rs
		m.vs.SelectedRow = 0
		m.vs.TableTop = 0
		m.invalidate()
		return m, nil

	case deleteResultMsg:
		m.applyDelete(msg)
		return m, nil
	}
	return m, nil
}

// dispatch applies one event and issues whatever store work it calls for.
func (m appModel) dispatch(ev Event) (tea.Model, tea.Cmd) {
	if ev == EventNone {
		return m, nil
	}
	// The row is captured before the transition so delete acts on what was selected.
	var target model.Record
	if m.vs.SelectedRow >= 0 && m.vs.SelectedRow < m.rows.Len() {
		target = m.rows.Records[m.vs.SelectedRow]
	}

	switch m.vs.Apply(ev, m.rows, m.overlayLineCount()) {
	case EffectQuit:
		return m, tea.Quit
	case EffectRedraw:
		m.invalidate()
	case EffectQuery:
		m.invalidate()
		return m, m.sortCmd(m.vs.SortColumn, m.vs.SortDescending)
	case EffectDelete:
		return m, m.deleteCmd(target)
	}
	return m, nil
}

func (m appModel) sortCmd(col string, descending bool) tea.Cmd {
	st, timeout := m.store, m.opts.QueryTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rs, err := st.Query(ctx, col, descending)
		return sortResultMsg{rs: rs, err: err}
	}
}

func (m appModel) deleteCmd(rec model.Record) tea.Cmd {
	st, timeout := m.store, m.opts.QueryTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ok, err := st.Delete(ctx, rec)
		return deleteResultMsg{rec: rec, deleted: ok, err: err}
	}
}

// applyDelete drops the deleted record from the cache. The record is located by value
// because the cache may have been refreshed while the delete was in flight.
func (m *appModel) applyDelete(msg deleteResultMsg) {
	if msg.err != nil {
		m.log.Error("delete failed", "id", msg.rec.ID, "err", msg.err)
		return
	}
	if !msg.deleted {
		m.log.Debug("delete matched no row", "id", msg.rec.ID)
		return
	}
	idx := m.rows.IndexOf(msg.rec)
	if idx < 0 {
		return
	}
	m.rows = m.rows.Without(idx)
	m.vs.ClampSelection(m.rows.Len())
	m.invalidate()
}

func (m *appModel) invalidate() { m.frameSeq++ }

func (m appModel) overlayLines() []string {
	if !m.vs.OverlayOpen {
		return nil
	}
	c := m.lines
	if c.valid && c.text == m.vs.OverlayText && c.width == m.vs.Width {
		return c.lines
	}
	*c = wrapCache{text: m.vs.OverlayText, width: m.vs.Width, lines: m.wrap(m.vs.OverlayText, m.vs.Width), valid: true}
	return c.lines
}

func (m appModel) overlayLineCount() int { return len(m.overlayLines()) }

func (m appModel) View() string {
	c := m.frame
	if c.valid && c.seq == m.frameSeq && c.width == m.vs.Width && c.height == m.vs.Height {
		return c.out
	}
	out := m.renderFrame()
	*c = frameCache{seq: m.frameSeq, width: m.vs.Width, height: m.vs.Height, out: out, valid: true}
	return out
}

func (m appModel) renderFrame() string {
	var header strings.Builder
	for _, f := range renderHeader(m.vs, m.opts.HeaderRule) {
		header.WriteString(m.st.forKind(f.kind).Render(f.text))
	}
	h := header.String()
	// The header bar spans the full width.
	if w := xansi.StringWidth(h); w < m.vs.Width {
		h += m.st.header.Render(strings.Repeat(" ", m.vs.Width-w))
	}
	headerLine := normalizeLines([]string{h}, m.vs.Width, 1)[0]

	frags := renderBody(m.vs, m.rows, func(string, int) []string { return m.overlayLines() })
	var body []string
	if m.vs.OverlayOpen {
		for _, f := range frags {
			body = append(body, m.st.forKind(f.kind).Render(f.text))
		}
	} else {
		var row strings.Builder
		var rows []string
		for _, f := range frags {
			if f.kind == fragRowEnd {
				rows = append(rows, row.String())
				row.Reset()
				continue
			}
			row.WriteString(m.st.forKind(f.kind).Render(f.text))
		}
		top := clamp(m.vs.TableTop, 0, len(rows))
		body = rows[top:]
	}

	lines := append([]string{headerLine}, normalizeLines(body, m.vs.Width, m.vs.BodyHeight())...)
	return strings.Join(lines, "\n")
}
