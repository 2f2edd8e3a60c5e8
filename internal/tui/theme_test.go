package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func clearThemeEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CHAT_HISTORY_TUI_THEME", "CHAT_HISTORY_TUI_DARKBG", "COLORFGBG", "NO_COLOR", "COLORTERM", "TERM", "CHAT_HISTORY_TUI_MD_STYLE"} {
		t.Setenv(k, "")
	}
}

func TestDarkBackgroundFromEnv(t *testing.T) {
	cases := []struct {
		name     string
		env      map[string]string
		wantDark bool
		wantOK   bool
	}{
		{name: "unset", env: nil, wantOK: false},
		{name: "theme light", env: map[string]string{"CHAT_HISTORY_TUI_THEME": "light", "CHAT_HISTORY_TUI_DARKBG": "true"}, wantDark: false, wantOK: true},
		{name: "theme dark", env: map[string]string{"CHAT_HISTORY_TUI_THEME": "Dark"}, wantDark: true, wantOK: true},
		{name: "darkbg", env: map[string]string{"CHAT_HISTORY_TUI_DARKBG": "1"}, wantDark: true, wantOK: true},
		{name: "colorfgbg dark", env: map[string]string{"COLORFGBG": "15;0"}, wantDark: true, wantOK: true},
		{name: "colorfgbg light", env: map[string]string{"COLORFGBG": "0;default;15"}, wantDark: false, wantOK: true},
		{name: "garbage", env: map[string]string{"COLORFGBG": "x;y"}, wantOK: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearThemeEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			dark, ok := darkBackgroundFromEnv()
			if ok != tc.wantOK || (ok && dark != tc.wantDark) {
				t.Fatalf("got dark=%v ok=%v, want dark=%v ok=%v", dark, ok, tc.wantDark, tc.wantOK)
			}
		})
	}
}

func TestColorProfileFromEnv(t *testing.T) {
	clearThemeEnv(t)
	if got := colorProfileFromEnv(termenv.ANSI); got != termenv.ANSI {
		t.Fatalf("expected detected profile, got %v", got)
	}

	t.Setenv("COLORTERM", "truecolor")
	if got := colorProfileFromEnv(termenv.ANSI); got != termenv.TrueColor {
		t.Fatalf("expected truecolor, got %v", got)
	}

	t.Setenv("COLORTERM", "")
	t.Setenv("TERM", "xterm-256color")
	if got := colorProfileFromEnv(termenv.Ascii); got != termenv.ANSI256 {
		t.Fatalf("expected 256 colors, got %v", got)
	}

	t.Setenv("NO_COLOR", "1")
	if got := colorProfileFromEnv(termenv.TrueColor); got != termenv.Ascii {
		t.Fatalf("NO_COLOR must disable colors, got %v", got)
	}
}

func TestWrapMarkdown(t *testing.T) {
	clearThemeEnv(t)
	t.Setenv("CHAT_HISTORY_TUI_MD_STYLE", "dark")

	if got := wrapMarkdown("  \n", 40); got != nil {
		t.Fatalf("expected no lines for blank text, got %q", got)
	}

	lines := wrapMarkdown("# Title\n\nsome **bold** body text that is long enough to need wrapping at forty columns", 40)
	if len(lines) < 3 {
		t.Fatalf("expected wrapped output, got %q", lines)
	}
	plain := xansi.Strip(strings.Join(lines, "\n"))
	for _, want := range []string{"Title", "bold", "wrapping"} {
		if !strings.Contains(plain, want) {
			t.Fatalf("rendered markdown missing %q: %q", want, plain)
		}
	}

	// Too narrow for glamour: plain wrapping.
	if got := wrapMarkdown("abc def", 4); strings.Join(got, "|") != "abc|def" {
		t.Fatalf("expected plain fallback, got %q", got)
	}
}
