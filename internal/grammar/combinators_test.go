package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"parsetrace/internal/trace"
)

func TestTag(t *testing.T) {
	rest, out, err := Tag("hello")("hello world")
	require.NoError(t, err)
	require.Equal(t, " world", rest)
	require.Equal(t, "hello", out)

	rest, _, err = Tag("hello")("goodbye")
	require.EqualError(t, err, `tag "hello" at "goodbye"`)
	require.Equal(t, "goodbye", rest)
}

func TestStreamingTag(t *testing.T) {
	_, _, err := StreamingTag("hello")("hel")
	require.ErrorIs(t, err, trace.ErrIncomplete)
	var inc *trace.IncompleteError
	require.ErrorAs(t, err, &inc)
	require.Equal(t, 2, inc.Needed)

	_, _, err = StreamingTag("hello")("help")
	require.EqualError(t, err, `tag "hello" at "help"`)

	rest, _, err := StreamingTag("hello")("hello!")
	require.NoError(t, err)
	require.Equal(t, "!", rest)
}

func TestCharAndClasses(t *testing.T) {
	rest, r, err := Char('é')("éa")
	require.NoError(t, err)
	require.Equal(t, 'é', r)
	require.Equal(t, "a", rest)

	_, _, err = Char(':')("")
	require.EqualError(t, err, `char ':' at ""`)

	rest, word, err := Alpha1()("abc123")
	require.NoError(t, err)
	require.Equal(t, "abc", word)
	require.Equal(t, "123", rest)

	_, _, err = Digit1()("x")
	require.EqualError(t, err, `digit at "x"`)

	rest, ws, err := Space0()("  \tx")
	require.NoError(t, err)
	require.Equal(t, "  \t", ws)
	require.Equal(t, "x", rest)

	_, _, err = EOF()("x")
	require.Error(t, err)
}

func TestAlt(t *testing.T) {
	p := Alt(Tag("a"), Tag("b"))
	_, out, err := p("bc")
	require.NoError(t, err)
	require.Equal(t, "b", out)

	_, _, err = p("c")
	require.EqualError(t, err, `alt at "c"`)

	// incomplete input stops the search
	_, _, err = Alt(StreamingTag("abc"), Tag("a"))("ab")
	require.ErrorIs(t, err, trace.ErrIncomplete)
}

func TestMany(t *testing.T) {
	rest, out, err := Many0(Tag("ab"))("ababx")
	require.NoError(t, err)
	require.Equal(t, []string{"ab", "ab"}, out)
	require.Equal(t, "x", rest)

	_, out, err = Many0(Tag("ab"))("x")
	require.NoError(t, err)
	require.Empty(t, out)

	// a parser that consumes nothing does not loop
	_, out, err = Many0(Space0())("x")
	require.NoError(t, err)
	require.Empty(t, out)

	_, _, err = Many1(Tag("ab"))("x")
	require.EqualError(t, err, `many at "x"`)
}

func TestSeparatedList1(t *testing.T) {
	p := SeparatedList1(Char(','), Digit1())
	rest, out, err := p("1,22,3,x")
	require.NoError(t, err)
	require.Equal(t, []string{"1", "22", "3"}, out)
	require.Equal(t, ",x", rest)

	_, _, err = p("x")
	require.Error(t, err)
}

func TestOptAndMap(t *testing.T) {
	_, got, err := Opt(Tag("a"))("b")
	require.NoError(t, err)
	require.Nil(t, got)

	_, got, err = Opt(Tag("a"))("a")
	require.NoError(t, err)
	require.Equal(t, "a", *got)

	_, n, err := Map(Digit1(), func(s string) int { return len(s) })("123")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, _, err = MapRes(Alpha1(), func(string) (int, error) { return 0, errDivByZero })("abc")
	require.EqualError(t, err, `map division by zero at "abc"`)
}

func TestDelimited(t *testing.T) {
	rest, out, err := Delimited(Char('('), Digit1(), Char(')'))("(42)!")
	require.NoError(t, err)
	require.Equal(t, "42", out)
	require.Equal(t, "!", rest)
}

func TestSequence3(t *testing.T) {
	p := Sequence3(Alpha1(), Char('='), Digit1())
	rest, out, err := p("x=12;")
	require.NoError(t, err)
	require.Equal(t, Tuple3[string, rune, string]{First: "x", Second: '=', Third: "12"}, out)
	require.Equal(t, ";", rest)

	rest, _, err = p("x=;")
	require.EqualError(t, err, `digit at ";"`)
	require.Equal(t, "x=;", rest)
}

func TestErrorAddContext(t *testing.T) {
	base := fail("x", KindDigit, "")
	withItem := base.AddContext("x", "item")
	withList := withItem.(*Error).AddContext("a:x", "list")

	require.Empty(t, base.Frames)
	require.Equal(t, []string{"item"}, withItem.(*Error).Labels())
	require.Equal(t, []string{"item", "list"}, withList.(*Error).Labels())
	require.EqualError(t, withList, `digit at "x" in item in list`)
}
