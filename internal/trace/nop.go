package trace

// nopSink discards events.
type nopSink struct{}

// Emit does nothing.
func (nopSink) Emit(string, *Event) {}

// Nop is the package-level singleton sink that drops everything.
var Nop Sink = nopSink{}
