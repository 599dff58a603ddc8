package grammar

import (
	"strconv"

	"github.com/cockroachdb/errors"

	"parsetrace/internal/trace"
)

// Rules binds grammar rules to a registry and tag. Rules named in Silenced
// are wrapped with trace.SilenceWith instead of trace.InstrumentWith.
type Rules struct {
	Registry *trace.Registry
	Tag      string
	Silenced map[string]bool
}

// rule instruments p as the named rule of g.
func rule[O any](g Rules, name, context string, p Parser[O]) Parser[O] {
	r := g.Registry
	if r == nil {
		r = trace.Current()
	}
	tag := g.Tag
	if tag == "" {
		tag = trace.DefaultTag
	}
	if g.Silenced[name] {
		return trace.SilenceWith(r, tag, name, context, p)
	}
	return trace.InstrumentWith(r, tag, name, context, p)
}

// Greeting matches the literal "hello".
func Greeting(g Rules) Parser[string] {
	return rule(g, "greeting", "", Tag("hello"))
}

// Item is one entry of a shopping list.
type Item struct {
	Name     string
	Quantity int
}

// ShoppingList parses "apple:3,banana:2".
func ShoppingList(g Rules) Parser[[]Item] {
	name := rule(g, "name", "", Alpha1())
	quantity := rule(g, "quantity", "", MapRes(Digit1(), strconv.Atoi))
	item := rule(g, "item", "Parsing item", Map(
		Pair(Terminated(name, Char(':')), quantity),
		func(t Tuple2[string, int]) Item { return Item{Name: t.First, Quantity: t.Second} },
	))
	sep := rule(g, "separator", "", Tag(","))
	return rule(g, "list", "Parsing shopping list", Terminated(SeparatedList1(sep, item), EOF()))
}

var errDivByZero = errors.New("division by zero")

// Expr parses and evaluates integer arithmetic with + - * / and
// parentheses. Nesting depth grows with parentheses, which makes it the
// grammar to try depth ceilings on.
func Expr(g Rules) Parser[int] {
	var expr Parser[int]
	var lazyExpr Parser[int] = func(in string) (string, int, error) { return expr(in) }

	number := rule(g, "number", "", MapRes(Preceded(Space0(), Digit1()), strconv.Atoi))
	parens := rule(g, "parens", "", Delimited(
		Preceded(Space0(), Char('(')),
		lazyExpr,
		Preceded(Space0(), Char(')')),
	))
	factor := rule(g, "factor", "", Alt(number, parens))

	op := func(ops string) Parser[rune] {
		alts := make([]Parser[rune], 0, len(ops))
		for _, c := range ops {
			alts = append(alts, Char(c))
		}
		return Preceded(Space0(), Alt(alts...))
	}

	term := rule(g, "term", "", fold(factor, op("*/"), func(acc int, o rune, v int) (int, error) {
		if o == '*' {
			return acc * v, nil
		}
		if v == 0 {
			return 0, errDivByZero
		}
		return acc / v, nil
	}))
	expr = rule(g, "expr", "", fold(term, op("+-"), func(acc int, o rune, v int) (int, error) {
		if o == '+' {
			return acc + v, nil
		}
		return acc - v, nil
	}))
	return expr
}

// fold parses operand (op operand)* and combines left to right.
func fold(operand Parser[int], op Parser[rune], combine func(int, rune, int) (int, error)) Parser[int] {
	tail := Many0(Pair(op, operand))
	return func(in string) (string, int, error) {
		rest, acc, err := operand(in)
		if err != nil {
			return in, 0, err
		}
		rest, pairs, err := tail(rest)
		if err != nil {
			return in, 0, err
		}
		for _, p := range pairs {
			acc, err = combine(acc, p.First, p.Second)
			if err != nil {
				return in, 0, fail(in, KindMapRes, err.Error())
			}
		}
		return rest, acc, nil
	}
}
