package main

import (
	"fmt"
	"sort"
	"strings"

	"parsetrace/internal/grammar"
)

// grammarRunner parses input with a grammar bound to rules.
type grammarRunner func(rules grammar.Rules, input string) (rest string, out any, err error)

var grammars = map[string]grammarRunner{
	"greeting": func(rules grammar.Rules, input string) (string, any, error) {
		return grammar.Greeting(rules)(input)
	},
	"list": func(rules grammar.Rules, input string) (string, any, error) {
		return grammar.ShoppingList(rules)(input)
	},
	"expr": func(rules grammar.Rules, input string) (string, any, error) {
		return grammar.Expr(rules)(input)
	},
}

func grammarNames() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupGrammar(name string) (grammarRunner, error) {
	g, ok := grammars[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown grammar %q (expected %s)", name, strings.Join(grammarNames(), "|"))
	}
	return g, nil
}
