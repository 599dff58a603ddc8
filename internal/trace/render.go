package trace

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// RenderOptions controls text rendering.
type RenderOptions struct {
	Color bool // wrap outcome classes in ANSI colors
}

const indentUnit = "| "

// palette holds the colors of one rendering. A nil color paints nothing.
type palette struct {
	success    *color.Color
	failure    *color.Color
	incomplete *color.Color
	context    *color.Color
	input      *color.Color
}

var colored = palette{
	success:    forced(color.FgGreen),
	failure:    forced(color.FgRed),
	incomplete: forced(color.FgYellow),
	context:    forced(color.BgCyan),
	input:      forced(color.BgHiBlue),
}

// forced builds a color that ignores terminal detection; whether to color
// is decided by RenderOptions.
func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

func paletteFor(opts RenderOptions) *palette {
	if opts.Color {
		return &colored
	}
	return &palette{}
}

func paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// Render formats events as an indented call tree, one line per event.
func Render(events []Event, opts RenderOptions) string {
	p := paletteFor(opts)
	var sb strings.Builder
	for i := range events {
		writeEvent(&sb, &events[i], p)
	}
	return sb.String()
}

// RenderEvent formats a single event as one line, newline included.
func RenderEvent(ev *Event, opts RenderOptions) string {
	var sb strings.Builder
	writeEvent(&sb, ev, paletteFor(opts))
	return sb.String()
}

// writeEvent writes one line. Name, context and detail are escaped with
// oneLine, so stripping the colors of a colored line yields the plain one:
//
//	[indent]name[context]("input")
//	[indent]name("input") -> Ok(output)[context]
func writeEvent(sb *strings.Builder, ev *Event, p *palette) {
	indent := strings.Repeat(indentUnit, max(ev.Depth, 0))
	input := strconv.Quote(ev.Input)
	name, context := oneLine(ev.Name), oneLine(ev.Context)

	if ev.Phase == PhaseEnter {
		sb.WriteString(indent)
		sb.WriteString(name)
		if context != "" {
			sb.WriteString("[")
			sb.WriteString(paint(p.context, context))
			sb.WriteString("]")
		}
		sb.WriteString("(")
		sb.WriteString(paint(p.input, input))
		sb.WriteString(")\n")
		return
	}

	var label string
	var c *color.Color
	switch ev.Phase {
	case PhaseSuccess:
		label, c = "Ok", p.success
	case PhaseFailure:
		label, c = "Error", p.failure
	case PhaseIncomplete:
		label, c = "Incomplete", p.incomplete
	default:
		label = ev.Phase.String()
	}

	sb.WriteString(paint(c, indent+name+"("+input+") -> "+label+"("+oneLine(ev.Detail)+")"))
	if context != "" {
		sb.WriteString("[")
		sb.WriteString(paint(p.context, context))
		sb.WriteString("]")
	}
	sb.WriteString("\n")
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes SGR color sequences from s.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}
