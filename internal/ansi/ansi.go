// Package ansi cleans terminal control sequences out of user-supplied text.
package ansi

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Strip removes ANSI escape sequences (CSI, OSC, DCS and friends) from s.
func Strip(s string) string {
	return xansi.Strip(s)
}

// Printable strips escape sequences and drops any remaining C0/C1 control
// characters, so s can be embedded in an OSC string without ending it early.
func Printable(s string) string {
	stripped := Strip(s)

	var b strings.Builder
	b.Grow(len(stripped))

	for _, r := range stripped {
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// Truncate shortens s to at most width terminal cells, keeping the tail
// (the file name end of a path) and marking the cut with "...".
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}

	const marker = "..."

	keep := width - len(marker)
	if keep <= 0 {
		return runewidth.Truncate(s, width, "")
	}

	runes := []rune(s)
	cells := 0
	i := len(runes)

	for i > 0 {
		w := runewidth.RuneWidth(runes[i-1])
		if cells+w > keep {
			break
		}
		cells += w
		i--
	}

	return marker + string(runes[i:])
}
