package observ

import (
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"parsetrace/internal/trace"
)

func TestCollectorCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	r := trace.NewRegistry(trace.DefaultConfig(), trace.WithOutput(io.Discard), trace.WithSink(c))
	ok := func(in string) (string, string, error) { return in[1:], in[:1], nil }
	inner := trace.InstrumentWith(r, "t", "inner", "", ok)
	outer := trace.InstrumentWith(r, "t", "outer", "", inner)

	_, _, err = outer("ab")
	require.NoError(t, err)
	_, _, err = outer("cd")
	require.NoError(t, err)

	require.Equal(t, 4.0, testutil.ToFloat64(c.events.WithLabelValues("t", "enter")))
	require.Equal(t, 4.0, testutil.ToFloat64(c.events.WithLabelValues("t", "success")))
	require.Equal(t, 0.0, testutil.ToFloat64(c.events.WithLabelValues("t", "failure")))
	require.Equal(t, 1, testutil.CollectAndCount(c.depth))
}

func TestCollectorRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)
	_, err = NewCollector(reg)
	require.Error(t, err)
}
