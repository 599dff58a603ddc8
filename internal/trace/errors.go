package trace

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
)

// ErrIncomplete marks a parser outcome that needs more input to decide.
var ErrIncomplete = errors.New("incomplete input")

// IncompleteError reports how much more input a streaming parser needs.
// Needed is 0 when the amount is unknown.
type IncompleteError struct {
	Needed int
}

// Incomplete returns an error classified as PhaseIncomplete.
func Incomplete(needed int) error {
	return &IncompleteError{Needed: needed}
}

func (e *IncompleteError) Error() string {
	if e.Needed > 0 {
		return fmt.Sprintf("incomplete input: need %d more", e.Needed)
	}
	return "incomplete input"
}

// Is makes IncompleteError match ErrIncomplete.
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

func (e *IncompleteError) needed() string {
	if e.Needed > 0 {
		return strconv.Itoa(e.Needed)
	}
	return "unknown"
}

// DepthLimitError is the panic value raised when an instrumented call would
// nest deeper than the store's ceiling. It is never returned as a parse error.
type DepthLimitError struct {
	Tag   string
	Name  string
	Limit int
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("max depth reached: %d (tag %q, parser %q)", e.Limit, e.Tag, e.Name)
}

// IsDepthLimit reports whether a recovered panic value is the depth ceiling stop.
func IsDepthLimit(recovered any) (*DepthLimitError, bool) {
	err, ok := recovered.(error)
	if !ok {
		return nil, false
	}
	var dl *DepthLimitError
	if errors.As(err, &dl) {
		return dl, true
	}
	return nil, false
}

// ContextAdder is implemented by parser errors that can carry the label of
// the instrumentation point they passed through.
type ContextAdder interface {
	AddContext(input, label string) error
}

// attachContext offers the label to err. Errors that cannot carry it are
// returned unchanged.
func attachContext(err error, input, label string) error {
	if ca, ok := err.(ContextAdder); ok {
		return ca.AddContext(input, label)
	}
	return err
}

// classify maps a parser error to its terminal phase and detail text.
func classify(err error) (Phase, string) {
	if err == nil {
		return PhaseSuccess, ""
	}
	var inc *IncompleteError
	if errors.As(err, &inc) {
		return PhaseIncomplete, inc.needed()
	}
	if errors.Is(err, ErrIncomplete) {
		return PhaseIncomplete, "unknown"
	}
	return PhaseFailure, oneLine(err.Error())
}
