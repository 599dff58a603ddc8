package observ

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock(2 * time.Millisecond)

	setup := timer.Begin("setup")
	timer.End(setup, "")
	parse := timer.Begin("parse")
	timer.End(parse, "3 input(s)")
	timer.End(99, "ignored")

	report := timer.Report()
	require.Equal(t, 4.0, report.TotalMS)
	require.Equal(t, []StageReport{
		{Name: "setup", DurationMS: 2},
		{Name: "parse", DurationMS: 2, Note: "3 input(s)"},
	}, report.Stages)

	want := "timings:\n" +
		"  setup                   2.00 ms\n" +
		"  parse                   2.00 ms  // 3 input(s)\n" +
		"  total                   4.00 ms\n"
	require.Equal(t, want, timer.Summary())
}

func TestEmptyTimer(t *testing.T) {
	require.Equal(t, Report{}, NewTimer().Report())
}
