//go:build !parsetrace_off

package trace

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func useDefaults(t *testing.T, cfg Config, opts ...Option) {
	t.Helper()
	Configure(cfg, append([]Option{WithOutput(io.Discard)}, opts...)...)
	t.Cleanup(func() { processDefaults.Store(nil) })
}

func TestCurrentIsPerGoroutine(t *testing.T) {
	useDefaults(t, DefaultConfig())
	p := Trace("hello", lit("hello"))

	counts := make([]int, 8)
	var g errgroup.Group
	for i := range counts {
		g.Go(func() error {
			defer Release()
			for range i + 1 {
				if _, _, err := p("hello"); err != nil {
					return err
				}
			}
			counts[i] = len(Events(DefaultTag))
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, n := range counts {
		require.Equal(t, 2*(i+1), n, "goroutine %d", i)
	}
}

func TestCurrentIsStableWithinGoroutine(t *testing.T) {
	defer Release()
	require.Same(t, Current(), Current())
	require.NotZero(t, goroutineID())
}

func TestReleaseDropsRegistry(t *testing.T) {
	useDefaults(t, DefaultConfig())
	defer Release()

	_, _, _ = Trace("hello", lit("hello"))("hello")
	first := Current()
	require.Len(t, first.Events(DefaultTag), 2)

	Release()
	second := Current()
	require.NotSame(t, first, second)
	require.Nil(t, second.Events(DefaultTag))
}

func TestConfigureAppliesToNewRegistries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ActiveByDefault = false
	useDefaults(t, cfg)
	defer Release()

	_, _, _ = TraceTag("quiet", "hello", lit("hello"))("hello")
	require.Nil(t, Events("quiet"))

	Activate("quiet")
	_, _, _ = TraceTag("quiet", "hello", lit("hello"))("hello")
	require.Len(t, Events("quiet"), 2)
}

func TestPackageLevelAPI(t *testing.T) {
	useDefaults(t, DefaultConfig())
	defer Release()

	p := TraceCtx("hello", "greeting", lit("hello"))
	_, _, _ = p("hello world")

	text, ok := GetTrace(DefaultTag)
	require.True(t, ok)
	require.Equal(t, "hello[greeting](\"hello world\")\nhello(\" world\") -> Ok(\"hello\")[greeting]\n", text)

	Deactivate(DefaultTag)
	_, _, _ = p("hello")
	require.Len(t, Events(DefaultTag), 2)

	Activate(DefaultTag)
	SetMaxDepth(DefaultTag, 1)
	SetPrint(DefaultTag, false)
	PrintTrace(DefaultTag)
	Reset(DefaultTag)
	_, ok = GetTrace(DefaultTag)
	require.False(t, ok)
	require.Equal(t, 1, Current().Store(DefaultTag).MaxDepth())
}

func TestSilencePackageLevel(t *testing.T) {
	useDefaults(t, DefaultConfig())
	defer Release()

	inner := Instrument("t", "inner", "", lit("a"))
	outer := Instrument("t", "outer", "", Silence("t", "quiet", "", inner))
	_, _, err := outer("a")
	require.NoError(t, err)
	require.Len(t, Events("t"), 2)
}
