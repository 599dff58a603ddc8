// Package grammar holds small nom-style string combinators and the example
// grammars the parsetrace CLI traces. Rules are instrumented through
// Rules, so every grammar can be bound to any registry and tag.
package grammar
