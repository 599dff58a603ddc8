//go:build parsetrace_off

package trace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompiledOutKeepsContext(t *testing.T) {
	r := newTestRegistry(t, nil)
	p := InstrumentWith(r, "t", "p", "ctx", lit("a"))

	rest, out, err := p("ab")
	require.NoError(t, err)
	require.Equal(t, "b", rest)
	require.Equal(t, "a", out)

	_, _, err = p("zz")
	require.Equal(t, []string{"ctx"}, err.(*labeledErr).labels)
	require.Empty(t, r.Tags())
}
