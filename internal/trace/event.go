package trace

import (
	"fmt"
	"strings"
)

// Phase represents the point in a parser call at which an event was recorded.
type Phase uint8

const (
	// PhaseEnter marks entry into an instrumented parser.
	PhaseEnter Phase = iota + 1 // call entered
	// PhaseSuccess marks a parser that produced a value.
	PhaseSuccess // returned rest + output
	// PhaseFailure marks a parser that returned an error.
	PhaseFailure    // returned an error
	PhaseIncomplete // needs more input
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	switch p {
	case PhaseEnter:
		return "enter"
	case PhaseSuccess:
		return "success"
	case PhaseFailure:
		return "failure"
	case PhaseIncomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase closes a call.
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseFailure || p == PhaseIncomplete
}

// ParsePhase converts a string to a Phase.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(s) {
	case "enter":
		return PhaseEnter, nil
	case "success":
		return PhaseSuccess, nil
	case "failure":
		return PhaseFailure, nil
	case "incomplete":
		return PhaseIncomplete, nil
	default:
		return 0, fmt.Errorf("invalid phase: %q (expected: enter|success|failure|incomplete)", s)
	}
}

// Event represents a single recorded instrumentation point.
type Event struct {
	Seq     uint64 `msgpack:"seq"`     // per-store sequence number (monotonic)
	Depth   int    `msgpack:"depth"`   // nesting level, 0 for an outermost call
	Phase   Phase  `msgpack:"phase"`   // enter or outcome class
	Name    string `msgpack:"name"`    // parser display name
	Context string `msgpack:"context"` // optional annotation
	Input   string `msgpack:"input"`   // input at entry, remaining input on success
	Detail  string `msgpack:"detail"`  // output, error text or needed count
}
