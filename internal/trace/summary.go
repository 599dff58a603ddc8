package trace

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

const summaryTail = "…"

// summarize renders a parser input as text bounded to width display columns.
func summarize(v any, width int) string {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	case []rune:
		s = string(x)
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(v)
	}
	return bound(s, width)
}

// describe renders a parser output the way it would be written in Go source
// where that is cheap, and with %+v otherwise.
func describe(v any, width int) string {
	var s string
	switch x := v.(type) {
	case nil:
		s = "nil"
	case string:
		s = strconv.Quote(x)
	case []byte:
		s = strconv.Quote(string(x))
	case error:
		s = x.Error()
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprintf("%+v", v)
	}
	return bound(oneLine(s), width)
}

// bound truncates s to width display columns. Text is NFC-normalized first
// so a combining sequence is never split by the cut.
func bound(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(norm.NFC.String(s), width, summaryTail)
}

// oneLine escapes line breaks and other non-printable runes so that s
// occupies exactly one terminal line and carries no control sequences.
// Printable text, quotes and backslashes included, is kept as is.
func oneLine(s string) string {
	if utf8.ValidString(s) && !strings.ContainsFunc(s, func(r rune) bool { return !strconv.IsPrint(r) }) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&sb, `\x%02x`, s[0])
		case strconv.IsPrint(r):
			sb.WriteString(s[:size])
		default:
			q := strconv.QuoteRuneToASCII(r)
			sb.WriteString(q[1 : len(q)-1])
		}
		s = s[size:]
	}
	return sb.String()
}
