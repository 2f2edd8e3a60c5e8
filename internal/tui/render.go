package tui

import (
	"fmt"
	"strings"

	"chathistory/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// cellWidth is the visible width of every table cell, excluding its one-space padding.
const cellWidth = 30

type fragKind int

const (
	fragHeader fragKind = iota
	fragHeaderEmphasis
	fragCell
	fragCellEmphasis
	fragRowEnd
	fragOverlayLine
)

// fragment is one styled piece of a frame; the shell maps kind to a lipgloss style.
type fragment struct {
	kind fragKind
	text string
}

// HeaderRule decides which header cell is emphasized for the selected column.
type HeaderRule int

const (
	// HeaderRuleSkipFirst never emphasizes column 0, even when it is selected.
	HeaderRuleSkipFirst HeaderRule = iota
	// HeaderRuleEmphasizeSelected emphasizes whichever column is selected.
	HeaderRuleEmphasizeSelected
)

func ParseHeaderRule(s string) (HeaderRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip-first":
		return HeaderRuleSkipFirst, nil
	case "selected":
		return HeaderRuleEmphasizeSelected, nil
	default:
		return HeaderRuleSkipFirst, fmt.Errorf("unknown header rule %q (want skip-first|selected)", s)
	}
}

func (r HeaderRule) String() string {
	if r == HeaderRuleEmphasizeSelected {
		return "selected"
	}
	return "skip-first"
}

func renderHeader(vs ViewState, rule HeaderRule) []fragment {
	out := make([]fragment, 0, len(VisibleColumns))
	for i, col := range VisibleColumns {
		kind := fragHeader
		if i == vs.SelectedCol && (i != 0 || rule == HeaderRuleEmphasizeSelected) {
			kind = fragHeaderEmphasis
		}
		out = append(out, fragment{kind: kind, text: " " + col + " "})
	}
	return out
}

// wrapFunc turns overlay text into display lines no wider than width.
type wrapFunc func(text string, width int) []string

func renderBody(vs ViewState, rs model.ResultSet, wrapLines wrapFunc) []fragment {
	if vs.OverlayOpen {
		lines := wrapLines(vs.OverlayText, vs.Width)
		start := clamp(vs.OverlayOffset, 0, len(lines))
		end := min(start+vs.BodyHeight(), len(lines))
		out := make([]fragment, 0, end-start)
		for _, ln := range lines[start:end] {
			out = append(out, fragment{kind: fragOverlayLine, text: ln})
		}
		return out
	}

	idx := visibleIndexes(rs.Columns)
	out := make([]fragment, 0, rs.Len()*(len(VisibleColumns)+1))
	for r, rec := range rs.Records {
		for c, col := range VisibleColumns {
			var v any
			if idx[c] >= 0 {
				v, _ = rec.Value(col)
			}
			kind := fragCell
			if r == vs.SelectedRow && c == vs.SelectedCol {
				kind = fragCellEmphasis
			}
			out = append(out, fragment{kind: kind, text: " " + fitCell(v) + " "})
		}
		out = append(out, fragment{kind: fragRowEnd, text: "\n"})
	}
	return out
}

// visibleIndexes resolves VisibleColumns against the live column set (-1 when absent).
func visibleIndexes(cols model.ColumnSet) [len(VisibleColumns)]int {
	var idx [len(VisibleColumns)]int
	for i, name := range VisibleColumns {
		idx[i] = cols.Index(name)
	}
	return idx
}

// fitCell stringifies v and truncates or pads it to exactly cellWidth columns.
func fitCell(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		s = ""
	case string:
		s = t
	default:
		s = fmt.Sprint(t)
	}
	s = xansi.Strip(s)
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
	s = xansi.Truncate(s, cellWidth, "")
	if w := xansi.StringWidth(s); w < cellWidth {
		s += strings.Repeat(" ", cellWidth-w)
	}
	return s
}

// wrapPlain word-wraps each raw line to width, hard-breaking words longer than width.
// Blank lines are kept so paragraph breaks survive.
func wrapPlain(text string, width int) []string {
	if text == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")

	var out []string
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, " \t")
		if raw == "" {
			out = append(out, "")
			continue
		}
		wrapped := wrap.String(wordwrap.String(raw, width), width)
		for _, ln := range strings.Split(wrapped, "\n") {
			out = append(out, strings.TrimRight(ln, " "))
		}
	}
	return out
}
