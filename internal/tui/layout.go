package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizeLines forces every line to be exactly width columns wide (ANSI-aware) and
// the block to be exactly height lines tall, so frames never wrap or leave stale cells.
func normalizeLines(lines []string, width, height int) []string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, 0, height)
	for _, ln := range lines {
		// Bound the work on huge lines before measuring them.
		if width > 0 && len(ln) > 8192 {
			ln = xansi.Truncate(ln, width, "")
		}
		w := xansi.StringWidth(ln)
		if w > width {
			switch {
			case width <= 0:
				ln = ""
			case width == 1:
				ln = xansi.Truncate(ln, 1, "")
			default:
				ln = xansi.Truncate(ln, width, "…")
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		out = append(out, ln)
	}
	for len(out) < height {
		out = append(out, strings.Repeat(" ", width))
	}
	return out
}
