package tui

import (
	"slices"
	"strings"
	"testing"

	"chathistory/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestRenderHeader_EmphasisRules(t *testing.T) {
	cases := []struct {
		name     string
		rule     HeaderRule
		col      int
		emphasis int // -1: none
	}{
		{name: "skip-first col 0", rule: HeaderRuleSkipFirst, col: 0, emphasis: -1},
		{name: "skip-first col 2", rule: HeaderRuleSkipFirst, col: 2, emphasis: 2},
		{name: "selected col 0", rule: HeaderRuleEmphasizeSelected, col: 0, emphasis: 0},
		{name: "selected col 3", rule: HeaderRuleEmphasizeSelected, col: 3, emphasis: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vs := NewViewState()
			vs.SelectedCol = tc.col
			frags := renderHeader(vs, tc.rule)
			if len(frags) != len(VisibleColumns) {
				t.Fatalf("expected %d header cells, got %d", len(VisibleColumns), len(frags))
			}
			for i, f := range frags {
				if want := " " + VisibleColumns[i] + " "; f.text != want {
					t.Fatalf("cell %d: expected %q, got %q", i, want, f.text)
				}
				if (i == tc.emphasis) != (f.kind == fragHeaderEmphasis) {
					t.Fatalf("cell %d: unexpected kind %v", i, f.kind)
				}
			}
		})
	}
}

func TestParseHeaderRule(t *testing.T) {
	for in, want := range map[string]HeaderRule{
		"":           HeaderRuleSkipFirst,
		"skip-first": HeaderRuleSkipFirst,
		"Selected":   HeaderRuleEmphasizeSelected,
	} {
		got, err := ParseHeaderRule(in)
		if err != nil || got != want {
			t.Fatalf("ParseHeaderRule(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseHeaderRule("bold"); err == nil {
		t.Fatalf("expected error for unknown rule")
	}
}

func TestRenderBody_TableFragments(t *testing.T) {
	rows := threeRows()
	vs := NewViewState()
	vs.SelectedRow = 1
	vs.SelectedCol = 2

	frags := renderBody(vs, rows, wrapPlain)
	if len(frags) != 15 {
		t.Fatalf("expected 15 fragments, got %d", len(frags))
	}
	for i, f := range frags {
		if i%5 == 4 {
			if f.kind != fragRowEnd || f.text != "\n" {
				t.Fatalf("fragment %d: expected row end, got %+v", i, f)
			}
			continue
		}
		wantKind := fragCell
		if i == 1*5+2 {
			wantKind = fragCellEmphasis
		}
		if f.kind != wantKind {
			t.Fatalf("fragment %d: expected kind %v, got %v", i, wantKind, f.kind)
		}
		if w := xansi.StringWidth(f.text); w != cellWidth+2 {
			t.Fatalf("fragment %d: expected width %d, got %d (%q)", i, cellWidth+2, w, f.text)
		}
	}
	if got := strings.TrimSpace(frags[1*5+2].text); got != "user" {
		t.Fatalf("expected selected cell to hold bob's role, got %q", got)
	}
	if got := strings.TrimSpace(frags[1].text); got != "1" {
		t.Fatalf("expected is_dm rendered as 1, got %q", got)
	}
}

func TestRenderBody_TruncatesAndPadsCells(t *testing.T) {
	rows := model.ResultSet{
		Columns: model.SchemaColumns,
		Records: []model.Record{
			{ID: 1, UserName: strings.Repeat("a", 50), Role: model.RoleUser, Timestamp: "t"},
			{ID: 2, UserName: "short", Role: model.RoleUser, Timestamp: "t"},
		},
	}
	frags := renderBody(NewViewState(), rows, wrapPlain)

	long := frags[0].text
	if long != " "+strings.Repeat("a", 30)+" " {
		t.Fatalf("expected truncation to 30 chars, got %q", long)
	}
	short := frags[5].text
	if short != " short"+strings.Repeat(" ", 25)+" " {
		t.Fatalf("expected padding to 30 chars, got %q", short)
	}
}

func TestRenderBody_MissingColumnRendersBlank(t *testing.T) {
	cols := slices.DeleteFunc(slices.Clone(model.SchemaColumns), func(c string) bool { return c == model.ColRole })
	rows := model.ResultSet{
		Columns: cols,
		Records: []model.Record{{ID: 1, UserName: "alice", Role: model.RoleUser, Timestamp: "t"}},
	}
	frags := renderBody(NewViewState(), rows, wrapPlain)
	if frags[2].text != strings.Repeat(" ", cellWidth+2) {
		t.Fatalf("expected blank role cell, got %q", frags[2].text)
	}
	if strings.TrimSpace(frags[0].text) != "alice" {
		t.Fatalf("expected user_name to still render, got %q", frags[0].text)
	}
}

func TestRenderBody_OverlayWindow(t *testing.T) {
	vs := NewViewState()
	vs.Resize(5, 80)
	vs.OverlayOpen = true
	vs.OverlayText = "Line1\nLine2\nLine3\nLine4\nLine5\nLine6"

	texts := func(frags []fragment) []string {
		var out []string
		for _, f := range frags {
			if f.kind != fragOverlayLine {
				t.Fatalf("unexpected fragment kind %v", f.kind)
			}
			out = append(out, f.text)
		}
		return out
	}

	got := texts(renderBody(vs, model.ResultSet{}, wrapPlain))
	if want := []string{"Line1", "Line2", "Line3", "Line4"}; !slices.Equal(got, want) {
		t.Fatalf("offset 0: expected %v, got %v", want, got)
	}

	vs.OverlayOffset = 2
	got = texts(renderBody(vs, model.ResultSet{}, wrapPlain))
	if want := []string{"Line3", "Line4", "Line5", "Line6"}; !slices.Equal(got, want) {
		t.Fatalf("offset 2: expected %v, got %v", want, got)
	}
}

func TestWrapPlain(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{name: "empty", text: "", width: 10, want: nil},
		{name: "fits", text: "hello", width: 10, want: []string{"hello"}},
		{name: "word wrap", text: "hello world", width: 5, want: []string{"hello", "world"}},
		{name: "hard break", text: "abcdefghij", width: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "blank lines kept", text: "a\n\nb\n", width: 10, want: []string{"a", "", "b"}},
		{name: "crlf", text: "a\r\nb", width: 10, want: []string{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := wrapPlain(tc.text, tc.width); !slices.Equal(got, tc.want) {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFitCell(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "int", in: int64(42), want: "42"},
		{name: "newlines flattened", in: "a\nb\tc", want: "a b c"},
		{name: "wide runes", in: "日本語", want: "日本語"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fitCell(tc.in)
			if w := xansi.StringWidth(got); w != cellWidth {
				t.Fatalf("expected width %d, got %d (%q)", cellWidth, w, got)
			}
			if strings.TrimRight(got, " ") != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}

	wide := fitCell(strings.Repeat("語", 20))
	if w := xansi.StringWidth(wide); w != cellWidth {
		t.Fatalf("expected wide text truncated to %d, got %d", cellWidth, w)
	}
}

func TestNormalizeLines(t *testing.T) {
	out := normalizeLines([]string{"abcdef", "ab"}, 4, 3)
	want := []string{"abc…", "ab  ", "    "}
	if !slices.Equal(out, want) {
		t.Fatalf("expected %q, got %q", want, out)
	}
	if got := normalizeLines([]string{"a", "b", "c"}, 1, 2); len(got) != 2 {
		t.Fatalf("expected height clamp, got %d lines", len(got))
	}
}
