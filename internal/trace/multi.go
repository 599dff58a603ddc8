package trace

// MultiSink fans out events to multiple sinks.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a sink that emits to all provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	flat := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		switch s := s.(type) {
		case nil:
		case *MultiSink:
			flat = append(flat, s.sinks...)
		default:
			flat = append(flat, s)
		}
	}
	return &MultiSink{sinks: flat}
}

// Emit sends the event to all underlying sinks.
func (t *MultiSink) Emit(tag string, ev *Event) {
	for _, s := range t.sinks {
		s.Emit(tag, ev)
	}
}
