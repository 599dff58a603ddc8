package trace

import "sync/atomic"

// Config holds the switches resolved once at startup.
type Config struct {
	Enabled         bool // record events at all (false: direct calls)
	Color           bool // colorize rendered traces
	Print           bool // echo events as they are recorded
	Context         bool // attach labels to failing parsers' errors
	Silencing       bool // honor Silence wrappers
	MaxDepth        bool // honor per-tag depth ceilings
	ActiveByDefault bool // activation state of newly created stores
	SummaryWidth    int  // display width of input/output summaries (0 = unbounded)
}

// DefaultSummaryWidth bounds input and output snapshots in events.
const DefaultSummaryWidth = 64

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		Context:         true,
		Silencing:       true,
		MaxDepth:        true,
		ActiveByDefault: true,
		SummaryWidth:    DefaultSummaryWidth,
	}
}

type defaults struct {
	cfg  Config
	opts []Option
}

var processDefaults atomic.Pointer[defaults]

// Configure sets the configuration and options for goroutine registries
// created after the call. Registries that already exist keep theirs.
func Configure(cfg Config, opts ...Option) {
	processDefaults.Store(&defaults{cfg: cfg, opts: opts})
}

func loadDefaults() *defaults {
	if d := processDefaults.Load(); d != nil {
		return d
	}
	return &defaults{cfg: DefaultConfig()}
}
