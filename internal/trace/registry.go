package trace

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/chainguard-dev/clog"
)

// DefaultTag is the tag used when callers do not name one.
const DefaultTag = "default"

// Registry maps tag names to their stores. A Registry belongs to a single
// goroutine and is not safe for concurrent use; Current hands out one per
// goroutine.
type Registry struct {
	cfg    Config
	stores map[string]*Store
	sink   Sink
	echo   Sink
	out    io.Writer
	log    *clog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithSink adds an observer that receives every recorded event.
func WithSink(s Sink) Option {
	return func(r *Registry) {
		if s == nil {
			return
		}
		if r.sink == nil {
			r.sink = s
			return
		}
		r.sink = NewMultiSink(r.sink, s)
	}
}

// WithOutput sets the writer used by PrintTrace and by the default echo
// stream. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Registry) { r.out = w }
}

// WithEcho replaces the sink that receives events of stores with printing on.
func WithEcho(s Sink) Option {
	return func(r *Registry) { r.echo = s }
}

// WithLogger sets the logger used for registry diagnostics.
func WithLogger(l *clog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config, opts ...Option) *Registry {
	r := &Registry{
		cfg:    cfg,
		stores: make(map[string]*Store),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.echo == nil {
		r.echo = NewStreamSink(r.out, RenderOptions{Color: cfg.Color})
	}
	if r.sink == nil {
		r.sink = Nop
	}
	if r.log == nil {
		r.log = clog.FromContext(context.Background())
	}
	return r
}

// Config returns the registry configuration.
func (r *Registry) Config() Config { return r.cfg }

// Store returns the store for tag, creating it on first use.
func (r *Registry) Store(tag string) *Store {
	if s, ok := r.stores[tag]; ok {
		return s
	}
	s := newStore(tag, &r.cfg)
	r.stores[tag] = s
	r.log.Debug("trace store created", "tag", tag, "active", s.active)
	return s
}

// Lookup returns the store for tag without creating it.
func (r *Registry) Lookup(tag string) (*Store, bool) {
	s, ok := r.stores[tag]
	return s, ok
}

// Tags returns the names of all stores, sorted.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.stores))
	for tag := range r.stores {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Activate turns recording on for tag, starting with the next call.
func (r *Registry) Activate(tag string) { r.Store(tag).active = true }

// Deactivate turns recording off for tag, starting with the next call.
func (r *Registry) Deactivate(tag string) { r.Store(tag).active = false }

// SetPrint toggles real-time echo of tag's events.
func (r *Registry) SetPrint(tag string, on bool) { r.Store(tag).print = on }

// SetMaxDepth sets the depth ceiling for tag; n <= 0 removes it.
// The ceiling is recorded even when depth limiting is switched off, but it
// is only enforced when Config.MaxDepth is set.
func (r *Registry) SetMaxDepth(tag string, n int) {
	if n < 0 {
		n = 0
	}
	r.Store(tag).maxDepth = n
}

// Reset clears tag's events and depth counters.
func (r *Registry) Reset(tag string) {
	s := r.Store(tag)
	dropped := len(s.events)
	s.clear()
	r.log.Debug("trace store reset", "tag", tag, "dropped", dropped)
}

// Events returns a copy of tag's events, nil for an unknown tag.
func (r *Registry) Events(tag string) []Event {
	s, ok := r.stores[tag]
	if !ok {
		return nil
	}
	return s.Events()
}

// GetTrace renders tag's events. It reports false when the tag was never
// used or has no events.
func (r *Registry) GetTrace(tag string) (string, bool) {
	s, ok := r.stores[tag]
	if !ok || len(s.events) == 0 {
		return "", false
	}
	return Render(s.events, RenderOptions{Color: r.cfg.Color}), true
}

// PrintTrace writes tag's rendered trace to the registry output.
// Nothing is written when there is no trace.
func (r *Registry) PrintTrace(tag string) {
	text, ok := r.GetTrace(tag)
	if !ok {
		return
	}
	// Best-effort write - a broken stdout must not fail the caller
	if _, err := fmt.Fprint(r.out, text); err != nil {
		r.log.Warn("trace print failed", "tag", tag, "error", err)
	}
}

// record appends ev to s and forwards it to the sinks.
func (r *Registry) record(s *Store, ev Event) {
	stored := s.append(ev)
	r.sink.Emit(s.tag, &stored)
	if s.print {
		r.echo.Emit(s.tag, &stored)
	}
}
