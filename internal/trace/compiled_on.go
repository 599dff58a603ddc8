//go:build !parsetrace_off

package trace

// Compiled is false when the binary is built with the parsetrace_off tag;
// wrappers then return the parser itself.
const Compiled = true
