package trace

import (
	"io"
	"sync"
)

// Sink receives events as they are recorded.
type Sink interface {
	// Emit observes one event of tag. Must be goroutine-safe; the event
	// must not be retained.
	Emit(tag string, ev *Event)
}

// StreamSink writes each event immediately to an io.Writer as one rendered
// line.
type StreamSink struct {
	mu   sync.Mutex
	w    io.Writer
	opts RenderOptions
}

// NewStreamSink creates a new StreamSink.
func NewStreamSink(w io.Writer, opts RenderOptions) *StreamSink {
	return &StreamSink{w: w, opts: opts}
}

// Emit writes an event to the output.
func (t *StreamSink) Emit(_ string, ev *Event) {
	data := RenderEvent(ev, t.opts)

	t.mu.Lock()
	defer t.mu.Unlock()

	// Best-effort write: a trace echo must not fail the parse
	_, _ = io.WriteString(t.w, data)
}

// Flush ensures all buffered data is written.
func (t *StreamSink) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}
