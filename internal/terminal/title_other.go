//go:build !windows

package terminal

import (
	"fmt"
	"io"
)

// SetTitle sets the terminal window title with an OSC 0 sequence written to
// out. Nothing is written when out is not a title-capable terminal.
func SetTitle(out io.Writer, info *Info, title string) error {
	if info == nil || !info.TitleEnabled() {
		return nil
	}

	if _, err := fmt.Fprintf(out, "\x1b]0;%s\a", titleText(title)); err != nil {
		return fmt.Errorf("set terminal title: %w", err)
	}

	return nil
}
