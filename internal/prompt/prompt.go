// Package prompt provides the acknowledgment gate shown before pauser exits.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/musher-dev/pauser/internal/output"
)

// DefaultMessage is the text shown next to the "Waiting" label.
const DefaultMessage = "enter any key to exit..."

// Prompter reads operator acknowledgments.
type Prompter struct {
	out    *output.Writer
	reader *bufio.Reader
}

// New creates a Prompter reading from in, or from os.Stdin when in is nil.
func New(out *output.Writer, in io.Reader) *Prompter {
	if in == nil {
		in = os.Stdin
	}

	return &Prompter{
		out:    out,
		reader: bufio.NewReader(in),
	}
}

// CanPrompt returns true unless input has been disabled.
func (p *Prompter) CanPrompt() bool {
	return !p.out.NoInput
}

// Pause prints the Waiting line in the given tone and blocks until one line
// (or end of input) is read. The content of the line is discarded.
func (p *Prompter) Pause(tone output.Tone, message string) error {
	if !p.CanPrompt() {
		return nil
	}

	if message == "" {
		message = DefaultMessage
	}

	p.out.Prompt(tone, "Waiting", "%s", message)

	if _, err := p.reader.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}
