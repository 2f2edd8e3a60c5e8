package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The browser must stay readable on light and dark terminal backgrounds, so colors
// are lipgloss.AdaptiveColor and the background guess can be overridden from env.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorHeaderBg   = ac("252", "237")
	colorHeaderFg   = ac("235", "252")
	colorAccent     = ac("27", "62") // blue
	colorAccentFg   = ac("255", "255")
	colorSelectedBg = ac("#e9e9e9", "#3a3a3a")
	colorSelectedFg = ac("235", "255")
	colorSurfaceFg  = ac("235", "252")
	colorControlBg  = ac("252", "235")
	colorOverlayFg  = colorSurfaceFg
)

type styles struct {
	header         lipgloss.Style
	headerEmphasis lipgloss.Style
	cell           lipgloss.Style
	cellEmphasis   lipgloss.Style
	overlay        lipgloss.Style
}

func newStyles() styles {
	return styles{
		header:         lipgloss.NewStyle().Bold(true).Foreground(colorHeaderFg).Background(colorHeaderBg),
		headerEmphasis: lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorAccent),
		cell:           lipgloss.NewStyle(),
		cellEmphasis:   lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg),
		overlay:        lipgloss.NewStyle().Foreground(colorOverlayFg),
	}
}

func (s styles) forKind(k fragKind) lipgloss.Style {
	switch k {
	case fragHeader:
		return s.header
	case fragHeaderEmphasis:
		return s.headerEmphasis
	case fragCellEmphasis:
		return s.cellEmphasis
	case fragOverlayLine:
		return s.overlay
	default:
		return s.cell
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile honors CLICOLOR/CLICOLOR_FORCE, which can disable colors in a
// TUI by accident; here only NO_COLOR turns colors off.
func applyColorProfilePreference() {
	lipgloss.SetColorProfile(colorProfileFromEnv(termenv.ColorProfile()))
}

func colorProfileFromEnv(detected termenv.Profile) termenv.Profile {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return termenv.Ascii
	}
	profile := detected
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	return profile
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) CHAT_HISTORY_TUI_THEME=light|dark|auto
// 2) CHAT_HISTORY_TUI_DARKBG=true|false
// 3) COLORFGBG heuristic ("fg;bg")
func applyThemePreference() {
	if dark, ok := darkBackgroundFromEnv(); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}

func darkBackgroundFromEnv() (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("CHAT_HISTORY_TUI_THEME"))) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}

	if v := strings.TrimSpace(os.Getenv("CHAT_HISTORY_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b, true
		}
	}

	// COLORFGBG is often "fg;bg" (sometimes more segments); the last one is the background.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			// xterm palette: 0-6 dark, 7-15 light.
			return bg < 7, true
		}
	}
	return false, false
}
