package grammar

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"parsetrace/internal/trace"
)

// Parser is a parser over string input.
type Parser[O any] = trace.Parser[string, O]

// Tuple2 is the result of Pair.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

// Tag matches the literal lit.
func Tag(lit string) Parser[string] {
	return func(in string) (string, string, error) {
		if strings.HasPrefix(in, lit) {
			return in[len(lit):], lit, nil
		}
		return in, "", fail(in, KindTag, strconv.Quote(lit))
	}
}

// StreamingTag matches lit, reporting incomplete input when in is a strict
// prefix of lit.
func StreamingTag(lit string) Parser[string] {
	return func(in string) (string, string, error) {
		if strings.HasPrefix(in, lit) {
			return in[len(lit):], lit, nil
		}
		if strings.HasPrefix(lit, in) {
			return in, "", trace.Incomplete(len(lit) - len(in))
		}
		return in, "", fail(in, KindTag, strconv.Quote(lit))
	}
}

// Char matches the rune c.
func Char(c rune) Parser[rune] {
	return func(in string) (string, rune, error) {
		r, size := utf8.DecodeRuneInString(in)
		if size > 0 && r == c {
			return in[size:], r, nil
		}
		return in, 0, fail(in, KindChar, strconv.QuoteRune(c))
	}
}

// takeWhile1 consumes at least one rune satisfying pred.
func takeWhile1(pred func(rune) bool, kind Kind) Parser[string] {
	return func(in string) (string, string, error) {
		n := 0
		for n < len(in) {
			r, size := utf8.DecodeRuneInString(in[n:])
			if !pred(r) {
				break
			}
			n += size
		}
		if n == 0 {
			return in, "", fail(in, kind, "")
		}
		return in[n:], in[:n], nil
	}
}

// Alpha1 matches one or more letters.
func Alpha1() Parser[string] { return takeWhile1(unicode.IsLetter, KindAlpha) }

// Digit1 matches one or more decimal digits.
func Digit1() Parser[string] {
	return takeWhile1(func(r rune) bool { return r >= '0' && r <= '9' }, KindDigit)
}

// Space0 consumes any leading white space.
func Space0() Parser[string] {
	return func(in string) (string, string, error) {
		rest := strings.TrimLeftFunc(in, unicode.IsSpace)
		return rest, in[:len(in)-len(rest)], nil
	}
}

// EOF succeeds only on empty input.
func EOF() Parser[struct{}] {
	return func(in string) (string, struct{}, error) {
		if in != "" {
			return in, struct{}{}, fail(in, KindEOF, "")
		}
		return in, struct{}{}, nil
	}
}

// Pair runs a then b.
func Pair[A, B any](a Parser[A], b Parser[B]) Parser[Tuple2[A, B]] {
	return func(in string) (string, Tuple2[A, B], error) {
		rest, x, err := a(in)
		if err != nil {
			return in, Tuple2[A, B]{}, err
		}
		rest, y, err := b(rest)
		if err != nil {
			return in, Tuple2[A, B]{}, err
		}
		return rest, Tuple2[A, B]{First: x, Second: y}, nil
	}
}

// Tuple3 is the result of Sequence3.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Sequence3 runs a, b and c in order.
func Sequence3[A, B, C any](a Parser[A], b Parser[B], c Parser[C]) Parser[Tuple3[A, B, C]] {
	return func(in string) (string, Tuple3[A, B, C], error) {
		var zero Tuple3[A, B, C]
		rest, x, err := a(in)
		if err != nil {
			return in, zero, err
		}
		rest, y, err := b(rest)
		if err != nil {
			return in, zero, err
		}
		rest, z, err := c(rest)
		if err != nil {
			return in, zero, err
		}
		return rest, Tuple3[A, B, C]{First: x, Second: y, Third: z}, nil
	}
}

// Preceded runs a then b, keeping b's output.
func Preceded[A, B any](a Parser[A], b Parser[B]) Parser[B] {
	return Map(Pair(a, b), func(t Tuple2[A, B]) B { return t.Second })
}

// Terminated runs a then b, keeping a's output.
func Terminated[A, B any](a Parser[A], b Parser[B]) Parser[A] {
	return Map(Pair(a, b), func(t Tuple2[A, B]) A { return t.First })
}

// Delimited runs l, p, r, keeping p's output.
func Delimited[L, O, R any](l Parser[L], p Parser[O], r Parser[R]) Parser[O] {
	return Preceded(l, Terminated(p, r))
}

// Alt returns the first alternative that succeeds. Incomplete input stops
// the search.
func Alt[O any](alts ...Parser[O]) Parser[O] {
	return func(in string) (string, O, error) {
		var zero O
		for _, p := range alts {
			rest, out, err := p(in)
			if err == nil {
				return rest, out, nil
			}
			if errors.Is(err, trace.ErrIncomplete) {
				return in, zero, err
			}
		}
		return in, zero, fail(in, KindAlt, "")
	}
}

// Many0 applies p until it fails.
func Many0[O any](p Parser[O]) Parser[[]O] {
	return func(in string) (string, []O, error) {
		var out []O
		for {
			rest, v, err := p(in)
			if err != nil {
				if errors.Is(err, trace.ErrIncomplete) {
					return in, nil, err
				}
				return in, out, nil
			}
			if len(rest) == len(in) {
				// no progress; stop rather than loop forever
				return in, out, nil
			}
			out = append(out, v)
			in = rest
		}
	}
}

// Many1 applies p at least once.
func Many1[O any](p Parser[O]) Parser[[]O] {
	many := Many0(p)
	return func(in string) (string, []O, error) {
		rest, out, err := many(in)
		if err != nil {
			return in, nil, err
		}
		if len(out) == 0 {
			return in, nil, fail(in, KindMany, "")
		}
		return rest, out, nil
	}
}

// SeparatedList1 matches one or more p separated by sep.
func SeparatedList1[S, O any](sep Parser[S], p Parser[O]) Parser[[]O] {
	return func(in string) (string, []O, error) {
		rest, first, err := p(in)
		if err != nil {
			return in, nil, err
		}
		out := []O{first}
		for {
			afterSep, _, err := sep(rest)
			if err != nil {
				return rest, out, nil
			}
			next, v, err := p(afterSep)
			if err != nil {
				return rest, out, nil
			}
			out = append(out, v)
			rest = next
		}
	}
}

// Opt makes p optional.
func Opt[O any](p Parser[O]) Parser[*O] {
	return func(in string) (string, *O, error) {
		rest, out, err := p(in)
		if err != nil {
			if errors.Is(err, trace.ErrIncomplete) {
				return in, nil, err
			}
			return in, nil, nil
		}
		return rest, &out, nil
	}
}

// Map transforms p's output.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(in string) (string, B, error) {
		rest, out, err := p(in)
		if err != nil {
			var zero B
			return in, zero, err
		}
		return rest, f(out), nil
	}
}

// MapRes transforms p's output with a fallible function.
func MapRes[A, B any](p Parser[A], f func(A) (B, error)) Parser[B] {
	return func(in string) (string, B, error) {
		var zero B
		rest, out, err := p(in)
		if err != nil {
			return in, zero, err
		}
		v, err := f(out)
		if err != nil {
			return in, zero, fail(in, KindMapRes, err.Error())
		}
		return rest, v, nil
	}
}
