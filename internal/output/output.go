// Package output provides CLI output handling with support for multiple modes.
//
// This package abstracts stdout/stderr writing to enable:
//   - Testable CLI commands via io.Writer injection
//   - JSON output mode for scripting
//   - Quiet mode for unattended runs
//   - Labelled, colored status lines with TTY detection
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/musher-dev/pauser/internal/terminal"
)

// contextKey is the key for storing Writer in context.
type contextKey struct{}

// Tone selects the color of a status label.
type Tone int

const (
	// ToneSuccess renders the label in bold green.
	ToneSuccess Tone = iota

	// ToneFailure renders the label in bold red.
	ToneFailure
)

// Writer handles CLI output with multiple modes.
type Writer struct {
	Out      io.Writer
	Err      io.Writer
	JSON     bool
	Quiet    bool
	NoInput  bool
	terminal *terminal.Info

	// Color functions
	successColor *color.Color
	failureColor *color.Color
	mutedColor   *color.Color
}

// Default returns a Writer configured for stdout/stderr.
func Default() *Writer {
	term := terminal.Detect()
	return newWriter(os.Stdout, os.Stderr, term)
}

// NewWriter creates a Writer with custom writers and terminal info.
func NewWriter(out, err io.Writer, term *terminal.Info) *Writer {
	return newWriter(out, err, term)
}

func newWriter(out, err io.Writer, term *terminal.Info) *Writer {
	w := &Writer{
		Out:      out,
		Err:      err,
		terminal: term,
	}

	w.successColor = color.New(color.FgGreen, color.Bold)
	w.failureColor = color.New(color.FgRed, color.Bold)
	w.mutedColor = color.New(color.FgHiBlack)

	// Disable colors if needed
	if !term.ColorEnabled() {
		color.NoColor = true
	}

	return w
}

// WithContext stores the Writer in the context.
func (w *Writer) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, w)
}

// FromContext retrieves the Writer from context, or returns Default().
func FromContext(ctx context.Context) *Writer {
	if w, ok := ctx.Value(contextKey{}).(*Writer); ok {
		return w
	}
	return Default()
}

// Terminal returns the terminal info.
func (w *Writer) Terminal() *terminal.Info {
	return w.terminal
}

// SetNoColor disables colored output.
func (w *Writer) SetNoColor(disabled bool) {
	w.terminal.ForceFlag = disabled
	if disabled {
		color.NoColor = true
	}
}

// Println writes a line to stdout (respects quiet mode).
func (w *Writer) Println(args ...interface{}) {
	if !w.Quiet {
		fmt.Fprintln(w.Out, args...)
	}
}

// PrintJSON outputs structured data as JSON.
func (w *Writer) PrintJSON(v interface{}) error {
	enc := json.NewEncoder(w.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Status writes "<label> <message>" to stdout with the label colored by
// tone. Quiet mode suppresses success lines only; failures always print.
func (w *Writer) Status(tone Tone, label, format string, args ...interface{}) {
	if w.Quiet && tone == ToneSuccess {
		return
	}

	w.writeStatus(w.Out, tone, label, fmt.Sprintf(format, args...))
}

// ErrorStatus writes a failure-toned status line to stderr.
func (w *Writer) ErrorStatus(label, format string, args ...interface{}) {
	w.writeStatus(w.Err, ToneFailure, label, fmt.Sprintf(format, args...))
}

// Prompt writes a status line that asks for input. It is shown even in
// quiet mode.
func (w *Writer) Prompt(tone Tone, label, format string, args ...interface{}) {
	w.writeStatus(w.Out, tone, label, fmt.Sprintf(format, args...))
}

func (w *Writer) writeStatus(dst io.Writer, tone Tone, label, msg string) {
	if w.terminal.ColorEnabled() {
		w.colorFor(tone).Fprint(dst, label)
		fmt.Fprintln(dst, " "+msg)
	} else {
		fmt.Fprintln(dst, label+" "+msg)
	}
}

// Success writes a green status line.
func (w *Writer) Success(label, format string, args ...interface{}) {
	w.Status(ToneSuccess, label, format, args...)
}

// Failure writes a red status line.
func (w *Writer) Failure(label, format string, args ...interface{}) {
	w.Status(ToneFailure, label, format, args...)
}

// Hint writes muted guidance text to stderr.
func (w *Writer) Hint(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.terminal.ColorEnabled() {
		w.mutedColor.Fprintln(w.Err, msg)
	} else {
		fmt.Fprintln(w.Err, msg)
	}
}

func (w *Writer) colorFor(tone Tone) *color.Color {
	if tone == ToneFailure {
		return w.failureColor
	}

	return w.successColor
}
