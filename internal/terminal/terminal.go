// Package terminal provides terminal detection and capabilities.
//
// This package handles:
//   - TTY detection for stdout and stdin
//   - NO_COLOR environment variable support
//   - Console window titles
package terminal

import (
	"os"

	"golang.org/x/term"

	"github.com/musher-dev/pauser/internal/ansi"
)

// maxTitleWidth caps the window title in terminal cells.
const maxTitleWidth = 120

// Info holds terminal capability information.
type Info struct {
	IsTTY     bool
	StdinTTY  bool
	NoColor   bool
	Dumb      bool
	Width     int
	Height    int
	ForceFlag bool // Set when --no-color flag is used
}

// Detect returns terminal information for the current environment.
func Detect() *Info {
	stdoutFD := int(os.Stdout.Fd())
	isTTY := term.IsTerminal(stdoutFD)

	width, height := 80, 24 // sensible defaults

	if isTTY {
		if w, h, err := term.GetSize(stdoutFD); err == nil {
			width, height = w, h
		}
	}

	// Check NO_COLOR environment variable (https://no-color.org/)
	_, noColor := os.LookupEnv("NO_COLOR")

	// Treat TERM=dumb as no-color (terminals that don't support escape sequences)
	dumb := os.Getenv("TERM") == "dumb"
	if dumb {
		noColor = true
	}

	return &Info{
		IsTTY:    isTTY,
		StdinTTY: term.IsTerminal(int(os.Stdin.Fd())),
		NoColor:  noColor,
		Dumb:     dumb,
		Width:    width,
		Height:   height,
	}
}

// ColorEnabled returns true if colored output should be used.
func (t *Info) ColorEnabled() bool {
	if t.ForceFlag {
		return false
	}

	return t.IsTTY && !t.NoColor
}

// InteractiveEnabled returns true if the operator can answer a prompt.
func (t *Info) InteractiveEnabled() bool {
	return t.StdinTTY
}

// TitleEnabled returns true if escape-sequence titles can be written.
func (t *Info) TitleEnabled() bool {
	return t.IsTTY && !t.Dumb
}

// titleText makes title safe to hand to the terminal and caps its width.
func titleText(title string) string {
	return ansi.Truncate(ansi.Printable(title), maxTitleWidth)
}
