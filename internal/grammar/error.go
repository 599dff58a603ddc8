package grammar

import (
	"fmt"
	"strings"
)

// Kind names the check that failed.
type Kind uint8

const (
	KindTag Kind = iota + 1
	KindChar
	KindAlpha
	KindDigit
	KindMany
	KindAlt
	KindEOF
	KindMapRes
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindChar:
		return "char"
	case KindAlpha:
		return "alpha"
	case KindDigit:
		return "digit"
	case KindMany:
		return "many"
	case KindAlt:
		return "alt"
	case KindEOF:
		return "eof"
	case KindMapRes:
		return "map"
	default:
		return "unknown"
	}
}

// Frame is one label attached while an error travelled up the parser stack.
type Frame struct {
	Input string
	Label string
}

// Error is the failure produced by the combinators in this package. It keeps
// the labels of the instrumented rules it passed through, innermost first.
type Error struct {
	Input  string
	Kind   Kind
	Want   string
	Frames []Frame
}

func fail(input string, kind Kind, want string) *Error {
	return &Error{Input: input, Kind: kind, Want: want}
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Want != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Want)
	}
	fmt.Fprintf(&sb, " at %q", e.Input)
	for _, f := range e.Frames {
		sb.WriteString(" in ")
		sb.WriteString(f.Label)
	}
	return sb.String()
}

// AddContext returns a copy of e with label appended to its frames.
func (e *Error) AddContext(input, label string) error {
	out := *e
	out.Frames = make([]Frame, len(e.Frames), len(e.Frames)+1)
	copy(out.Frames, e.Frames)
	out.Frames = append(out.Frames, Frame{Input: input, Label: label})
	return &out
}

// Labels returns the attached labels, innermost first.
func (e *Error) Labels() []string {
	labels := make([]string, len(e.Frames))
	for i, f := range e.Frames {
		labels[i] = f.Label
	}
	return labels
}
