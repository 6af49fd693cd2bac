package device

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// TerminalSink prints replies to a terminal.
type TerminalSink struct {
	mu    sync.Mutex
	out   io.Writer
	reply *color.Color
	state *color.Color
	// ShowState prints visual state changes too.
	ShowState bool
}

func NewTerminalSink(out io.Writer) *TerminalSink {
	if out == nil {
		out = os.Stdout
	}
	return &TerminalSink{
		out:   out,
		reply: color.New(color.FgCyan, color.Bold),
		state: color.New(color.FgHiBlack),
	}
}

func (t *TerminalSink) Render(_ context.Context, _ string, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.reply.Fprintf(t.out, "AXON: %s\n", text)
	return err
}

func (t *TerminalSink) SetVisualState(_ context.Context, _ string, state VisualState) error {
	if !t.ShowState {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.state.Fprintf(t.out, "[%s]\n", state)
	return err
}
