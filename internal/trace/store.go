package trace

// Store holds the trace state of one tag on one goroutine: activation,
// depth bookkeeping and the ordered event log.
type Store struct {
	tag      string
	active   bool
	print    bool
	maxDepth int // 0 = no ceiling
	depth    int
	silence  int
	seq      uint64
	// generation advances on every reset; frames opened before a reset
	// leave depth and silence alone when they unwind.
	generation uint64
	events     []Event
}

func newStore(tag string, cfg *Config) *Store {
	return &Store{
		tag:    tag,
		active: cfg.ActiveByDefault,
		print:  cfg.Print,
	}
}

// Tag returns the tag name the store belongs to.
func (s *Store) Tag() string { return s.tag }

// Active reports whether calls on this tag record events.
func (s *Store) Active() bool { return s.active }

// Printing reports whether events are echoed as they are recorded.
func (s *Store) Printing() bool { return s.print }

// MaxDepth returns the depth ceiling, 0 when none is set.
func (s *Store) MaxDepth() int { return s.maxDepth }

// Depth returns the number of instrumented calls currently open.
func (s *Store) Depth() int { return s.depth }

// SilenceDepth returns the number of open silencing wrappers.
func (s *Store) SilenceDepth() int { return s.silence }

// Len returns the number of recorded events.
func (s *Store) Len() int { return len(s.events) }

// Events returns a copy of the recorded events in sequence order.
func (s *Store) Events() []Event {
	if len(s.events) == 0 {
		return nil
	}
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// clear drops the log and the depth counters. Activation, printing and the
// ceiling survive.
func (s *Store) clear() {
	s.events = nil
	s.depth = 0
	s.silence = 0
	s.seq = 0
	s.generation++
}

// append stamps ev with the next sequence number and stores it.
func (s *Store) append(ev Event) Event {
	s.seq++
	ev.Seq = s.seq
	s.events = append(s.events, ev)
	return ev
}
