package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/musher-dev/pauser/internal/output"
	"github.com/musher-dev/pauser/internal/terminal"
)

func newTestWriter(buf *bytes.Buffer) *output.Writer {
	return output.NewWriter(buf, buf, &terminal.Info{NoColor: true})
}

func TestPause(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		want    string
	}{
		{
			name:  "line of input",
			input: "anything at all\n",
			want:  "Waiting enter any key to exit...\n",
		},
		{
			name:  "empty line",
			input: "\n",
			want:  "Waiting enter any key to exit...\n",
		},
		{
			name:  "end of input",
			input: "",
			want:  "Waiting enter any key to exit...\n",
		},
		{
			name:    "custom message",
			input:   "\n",
			message: "press enter to close",
			want:    "Waiting press enter to close\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			p := New(newTestWriter(&buf), strings.NewReader(tt.input))

			if err := p.Pause(output.ToneSuccess, tt.message); err != nil {
				t.Fatalf("Pause() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Pause() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPause_ConsumesOneLine(t *testing.T) {
	var buf bytes.Buffer

	p := New(newTestWriter(&buf), strings.NewReader("first\nsecond\n"))

	if err := p.Pause(output.ToneSuccess, ""); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	rest, err := p.reader.ReadString('\n')
	if err != nil || rest != "second\n" {
		t.Fatalf("remaining input = %q, %v; want %q", rest, err, "second\n")
	}
}

func TestPause_NoInputSkips(t *testing.T) {
	var buf bytes.Buffer

	w := newTestWriter(&buf)
	w.NoInput = true

	p := New(w, iotest.ErrReader(errors.New("must not read")))

	if err := p.Pause(output.ToneFailure, ""); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("Pause() with NoInput wrote %q", buf.String())
	}
}

func TestPause_ReadError(t *testing.T) {
	var buf bytes.Buffer

	readErr := errors.New("console detached")
	p := New(newTestWriter(&buf), iotest.ErrReader(readErr))

	if err := p.Pause(output.ToneFailure, ""); !errors.Is(err, readErr) {
		t.Fatalf("Pause() error = %v, want %v", err, readErr)
	}
}
