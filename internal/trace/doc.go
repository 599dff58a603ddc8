// Package trace records and renders the execution of recursive-descent
// parsers.
//
// A parser is any function of the shape
//
//	func(input I) (rest I, out O, err error)
//
// Wrapping it with Instrument records an enter event before the call and an
// outcome event after it, at the current nesting depth. Rendering the
// recorded events yields an indented call tree:
//
//	expr("1+2")
//	| term("1+2")
//	| term("+2") -> Ok(1)
//	expr("") -> Ok(3)
//
// # Tags and goroutines
//
// Events are kept in a Store per tag. Stores live in a Registry; Current
// returns the calling goroutine's registry, so goroutines never share trace
// state. Release drops it again.
//
//	p := trace.Instrument("expr", "term", "", term)
//	p(input)
//	text, ok := trace.GetTrace("expr")
//
// # Outcomes
//
// A nil error is a success. Errors matching ErrIncomplete (see Incomplete)
// are recorded as incomplete; anything else is a failure. The wrapped
// parser's results are always returned unchanged, apart from labels attached
// to errors that implement ContextAdder when Config.Context is set.
//
// # Depth ceiling and silencing
//
// SetMaxDepth installs a ceiling; a call that would nest deeper panics with
// a *DepthLimitError. Silence wraps a parser so that its whole subtree is
// left out of the log while still counting towards the depth.
//
// # Build tag
//
// Building with -tags parsetrace_off compiles the recording path out:
// Instrument and Silence return the parser itself.
package trace
