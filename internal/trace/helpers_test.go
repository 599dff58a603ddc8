package trace

import (
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// labeledErr is a parser error that collects context labels.
type labeledErr struct {
	msg    string
	labels []string
}

func (e *labeledErr) Error() string { return e.msg }

func (e *labeledErr) AddContext(_, label string) error {
	out := *e
	out.labels = append(slices.Clone(e.labels), label)
	return &out
}

func lit(s string) Parser[string, string] {
	return func(in string) (string, string, error) {
		if strings.HasPrefix(in, s) {
			return in[len(s):], s, nil
		}
		return in, "", &labeledErr{msg: "expected " + strconv.Quote(s)}
	}
}

func newTestRegistry(t *testing.T, mutate func(*Config), opts ...Option) *Registry {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return NewRegistry(cfg, append([]Option{WithOutput(io.Discard)}, opts...)...)
}

// recordingSink keeps copies of everything it is sent.
type recordingSink struct {
	mu     sync.Mutex
	tags   []string
	events []Event
}

func (s *recordingSink) Emit(tag string, ev *Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = append(s.tags, tag)
	s.events = append(s.events, *ev)
}
