package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style + wrap width. WithAutoStyle can block on terminal
	// background queries, so the style is resolved from env and lipgloss instead.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// wrapMarkdown renders model output as markdown and returns its display lines.
// Rendering errors fall back to plain wrapping so the overlay always has content.
func wrapMarkdown(text string, width int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if width < 10 {
		return wrapPlain(text, width)
	}

	r, err := markdownRenderer(markdownStyle(), width)
	if err != nil {
		return wrapPlain(text, width)
	}
	out, err := r.Render(text)
	if err != nil {
		return wrapPlain(text, width)
	}
	out = strings.Trim(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func markdownRenderer(style string, width int) (*glamour.TermRenderer, error) {
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	if r := mdRenderers[key]; r != nil {
		return r, nil
	}

	cfg := markdownStyleConfig(style)
	zero := uint(0)
	// The overlay already owns the full terminal width; no document margin.
	cfg.Document.Margin = &zero
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(cfg),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	mdRenderers[key] = r
	return r, nil
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	if style == "light" {
		cfg = glamourstyles.LightStyleConfig
	} else {
		cfg = glamourstyles.DarkStyleConfig
	}

	text := mdColor(colorSurfaceFg, style)
	cfg.Text.Color = text
	cfg.Heading.Color = text
	cfg.Code.Color = text
	cfg.CodeBlock.Color = text
	if cfg.CodeBlock.BackgroundColor == nil {
		cfg.CodeBlock.BackgroundColor = mdColor(colorControlBg, style)
	}
	link := mdColor(colorAccent, style)
	cfg.Link.Color = link
	cfg.LinkText.Color = link
	// Emphasis inherits the base text color instead of the style's keyword colors.
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	return cfg
}

func markdownStyle() string {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("CHAT_HISTORY_TUI_MD_STYLE"))); v == "light" || v == "dark" {
		return v
	}
	if dark, ok := darkBackgroundFromEnv(); ok {
		if dark {
			return "dark"
		}
		return "light"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func mdColor(c lipgloss.AdaptiveColor, style string) *string {
	v := c.Dark
	if style == "light" {
		v = c.Light
	}
	return &v
}
